package injector

import (
	"bytes"
	"io"
	"log/slog"
)

type testEngine struct {
	Cylinders int
}

type testCar struct {
	Model  string
	Engine Lazy[*testEngine]
	Spare  Lazy[*testEngine]
	Count  Lazy[int]

	hidden Lazy[*testEngine]
	Plain  *testEngine
}

func (c *testCar) ModelName() string {
	return c.Model
}

type testModel interface {
	ModelName() string
}

type testNode struct {
	Children []*testNode
}

type testWheel interface {
	Size() int
}

type testAlloy struct{}

func (testAlloy) Size() int {
	return 17
}

// quiet keeps rejection warnings out of the test output.
func quiet() Option {
	return WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// logInto sends everything at level and above to buf.
func logInto(buf *bytes.Buffer, level slog.Level) Option {
	return WithLogger(slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: level})))
}

// countingEngineType returns an origin type whose constructor counts its runs.
func countingEngineType(name string, runs *int) *Type {
	return DefineNamed[*testEngine](name, func(args ...any) (*testEngine, error) {
		*runs++
		e := &testEngine{Cylinders: 4}
		if len(args) > 0 {
			e.Cylinders = args[0].(int)
		}
		return e, nil
	})
}

func carType() *Type {
	return DefineNamed[*testCar]("Car", func(args ...any) (*testCar, error) {
		return &testCar{Model: "roadster"}, nil
	})
}
