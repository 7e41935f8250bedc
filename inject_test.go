package injector

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInjectProperty_FirstReadCallsFactoryOnce(t *testing.T) {
	calls := 0
	var asked []reflect.Type
	car := carType()
	declared := reflect.TypeFor[testWheel]()

	err := InjectProperty(car, "Engine", declared, countingFactory(&calls, &asked))
	require.NoError(t, err)

	instance, err := Construct[*testCar](car)
	require.NoError(t, err)
	assert.Equal(t, 0, calls)

	first, err := instance.Engine.Get()
	require.NoError(t, err)
	second, err := instance.Engine.Get()
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, calls)
	// The declared type reaches the factory as given, it is not checked against the field.
	assert.Equal(t, []reflect.Type{declared}, asked)
}

func TestInjectProperty_WriteBeforeRead(t *testing.T) {
	calls := 0
	car := carType()
	require.NoError(t, InjectProperty(car, "Engine", reflect.TypeFor[*testEngine](), countingFactory(&calls, nil)))

	instance, err := Construct[*testCar](car)
	require.NoError(t, err)

	mine := &testEngine{Cylinders: 16}
	instance.Engine.Set(mine)

	assert.Same(t, mine, instance.Engine.MustGet())
	assert.Equal(t, 0, calls)
}

func TestInjectProperty_PerInstanceCache(t *testing.T) {
	calls := 0
	car := carType()
	require.NoError(t, InjectProperty(car, "Engine", reflect.TypeFor[*testEngine](), countingFactory(&calls, nil)))

	a, err := Construct[*testCar](car)
	require.NoError(t, err)
	b, err := Construct[*testCar](car)
	require.NoError(t, err)

	assert.NotSame(t, a.Engine.MustGet(), b.Engine.MustGet())
	assert.Equal(t, 2, calls)
}

func TestInjectProperty_NilDeclaredUsesFieldType(t *testing.T) {
	calls := 0
	var asked []reflect.Type
	car := carType()
	require.NoError(t, InjectProperty(car, "Engine", nil, countingFactory(&calls, &asked)))

	instance, err := Construct[*testCar](car)
	require.NoError(t, err)
	_ = instance.Engine.MustGet()

	assert.Equal(t, []reflect.Type{reflect.TypeFor[*testEngine]()}, asked)
}

func TestInjectProperty_SurvivesStructCopy(t *testing.T) {
	calls := 0
	car := carType()
	require.NoError(t, InjectProperty(car, "Engine", nil, countingFactory(&calls, nil)))

	instance, err := Construct[*testCar](car)
	require.NoError(t, err)
	engine := instance.Engine.MustGet()

	copied := *instance
	assert.Same(t, engine, copied.Engine.MustGet())
	assert.Equal(t, 1, calls)
}

func TestInjectProperty_MultipleProperties(t *testing.T) {
	engineCalls, spareCalls := 0, 0
	car := carType()
	require.NoError(t, InjectProperty(car, "Spare", nil, countingFactory(&spareCalls, nil)))
	require.NoError(t, InjectProperty(car, "Engine", nil, countingFactory(&engineCalls, nil)))
	require.NoError(t, InjectProperty(car, "Count", nil, func(declared reflect.Type) (any, error) {
		return 3, nil
	}))

	assert.Equal(t, []string{"Count", "Engine", "Spare"}, car.Properties())

	instance, err := Construct[*testCar](car)
	require.NoError(t, err)
	_ = instance.Spare.MustGet()
	assert.Equal(t, 0, engineCalls)
	assert.Equal(t, 1, spareCalls)
	assert.Equal(t, 3, instance.Count.MustGet())
	assert.False(t, instance.Engine.IsSet())
}

func TestInjectProperty_ThroughWrappers(t *testing.T) {
	originCalls, wrapperCalls := 0, 0
	car := carType()
	g := NewGuard(quiet())
	wrapper, err := g.Instrument(car)
	require.NoError(t, err)

	// Bound after instrumentation, still applies to instances built through the wrapper.
	require.NoError(t, InjectProperty(car, "Engine", nil, countingFactory(&originCalls, nil)))
	require.NoError(t, InjectProperty(wrapper, "Spare", nil, countingFactory(&wrapperCalls, nil)))

	instance, err := Construct[*testCar](wrapper)
	require.NoError(t, err)
	_ = instance.Engine.MustGet()
	_ = instance.Spare.MustGet()
	assert.Equal(t, 1, originCalls)
	assert.Equal(t, 1, wrapperCalls)

	direct, err := Construct[*testCar](car)
	require.NoError(t, err)
	_, err = direct.Spare.Get()
	assert.ErrorIs(t, err, ErrPropertyNotBound)
}

func TestInjectProperty_RebindReplacesFactory(t *testing.T) {
	first, second := 0, 0
	car := carType()
	require.NoError(t, InjectProperty(car, "Engine", nil, countingFactory(&first, nil)))
	require.NoError(t, InjectProperty(car, "Engine", nil, countingFactory(&second, nil)))

	instance, err := Construct[*testCar](car)
	require.NoError(t, err)
	_ = instance.Engine.MustGet()

	assert.Equal(t, 0, first)
	assert.Equal(t, 1, second)
}

func TestInjectProperty_InvalidField(t *testing.T) {
	factory := func(declared reflect.Type) (any, error) { return nil, nil }

	tests := []struct {
		name     string
		property string
	}{
		{"missing", "Wheel"},
		{"unexported", "hidden"},
		{"not lazy", "Plain"},
		{"not lazy string", "Model"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			car := carType()
			err := InjectProperty(car, tt.property, nil, factory)
			assert.ErrorIs(t, err, ErrNoSuchProperty)
			assert.Empty(t, car.Properties())
		})
	}
}

func TestInjectProperty_NotAPointerToStruct(t *testing.T) {
	factory := func(declared reflect.Type) (any, error) { return nil, nil }
	byValue := DefineNamed[testCar]("Car", func(args ...any) (testCar, error) {
		return testCar{}, nil
	})

	err := InjectProperty(byValue, "Engine", nil, factory)
	assert.ErrorIs(t, err, ErrNoSuchProperty)
}

func TestInjectProperty_CheckedOnConstructionWithoutGoType(t *testing.T) {
	factory := func(declared reflect.Type) (any, error) { return nil, nil }
	untyped := NewType("Car", func(args ...any) (any, error) {
		return testCar{}, nil
	})

	require.NoError(t, InjectProperty(untyped, "Engine", nil, factory))

	_, err := untyped.New()
	assert.ErrorIs(t, err, ErrNoSuchProperty)

	nilInstance := NewType("Car", func(args ...any) (any, error) {
		return nil, nil
	})
	require.NoError(t, InjectProperty(nilInstance, "Engine", nil, factory))
	_, err = nilInstance.New()
	assert.ErrorIs(t, err, ErrNoSuchProperty)
}

func TestInjectProperty_BadArguments(t *testing.T) {
	err := InjectProperty(nil, "Engine", nil, func(declared reflect.Type) (any, error) { return nil, nil })
	assert.ErrorIs(t, err, ErrInvalidType)

	err = InjectProperty(carType(), "Engine", nil, nil)
	assert.ErrorIs(t, err, ErrNilFactory)
}

func TestInjectProperty_InterfaceGoType(t *testing.T) {
	calls := 0
	model := Define[testModel](func(args ...any) (testModel, error) {
		return &testCar{Model: "coupe"}, nil
	})

	require.NoError(t, InjectProperty(model, "Engine", nil, countingFactory(&calls, nil)))

	instance, err := Construct[testModel](model)
	require.NoError(t, err)
	assert.Equal(t, "coupe", instance.ModelName())

	car := instance.(*testCar)
	assert.Same(t, car.Engine.MustGet(), car.Engine.MustGet())
	assert.Equal(t, 1, calls)
}

func TestInjectProperty_InterfaceGoType_CheckedOnConstruction(t *testing.T) {
	wheel := Define[testWheel](func(args ...any) (testWheel, error) {
		return testAlloy{}, nil
	})

	require.NoError(t, InjectProperty(wheel, "Engine", nil, func(declared reflect.Type) (any, error) {
		return nil, nil
	}))

	_, err := wheel.New()
	assert.ErrorIs(t, err, ErrNoSuchProperty)
}
