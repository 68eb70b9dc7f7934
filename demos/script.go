package demos

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/physicstest/prefabs"
)

const scriptTimeout = 2 * time.Second

// ScriptEnv is what a spawn script can see.
type ScriptEnv struct {
	Width  float64
	Height float64
	Seed   int64
}

// RunSpawnScript runs a tengo script and collects the shapes it asks for.
// Scripts get width, height, random(), and
//
//	spawn_ball(x, y, radius[, material])
//	spawn_box(x, y, width, height[, material])
//	spawn_triangle(x, y, width, height[, material])
//
// where material is a map with density, friction and elasticity keys.
// Scripted boxes and triangles are placed unrotated.
func RunSpawnScript(ctx context.Context, src []byte, env ScriptEnv) ([]SpawnSpec, error) {
	var spawns []SpawnSpec
	rng := rand.New(rand.NewSource(env.Seed))

	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap("math", "fmt"))
	script.SetMaxAllocs(1 << 20)

	globals := map[string]any{
		"width":  env.Width,
		"height": env.Height,
		"random": &tengo.UserFunction{Name: "random", Value: func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) != 0 {
				return nil, tengo.ErrWrongNumArguments
			}
			return &tengo.Float{Value: rng.Float64()}, nil
		}},
		"spawn_ball": &tengo.UserFunction{Name: "spawn_ball", Value: func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) != 3 && len(args) != 4 {
				return nil, tengo.ErrWrongNumArguments
			}
			nums, err := floatArgs("spawn_ball", args[:3])
			if err != nil {
				return nil, err
			}
			sp := SpawnSpec{Shape: ShapeBall, X: nums[0], Y: nums[1], Radius: nums[2]}
			if len(args) == 4 {
				if sp.Material, err = materialArg("spawn_ball", args[3]); err != nil {
					return nil, err
				}
			}
			spawns = append(spawns, sp)
			return tengo.TrueValue, nil
		}},
		"spawn_box":      sizedSpawn(ShapeBox, &spawns),
		"spawn_triangle": sizedSpawn(ShapeTriangle, &spawns),
	}
	for name, value := range globals {
		if err := script.Add(name, value); err != nil {
			return nil, fmt.Errorf("demos: script: add %s: %w", name, err)
		}
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, scriptTimeout)
	defer cancel()
	if _, err := script.RunContext(ctx); err != nil {
		return nil, fmt.Errorf("demos: script: %w", err)
	}
	for i, sp := range spawns {
		if err := sp.Validate(); err != nil {
			return nil, fmt.Errorf("demos: script: spawn %d: %w", i, err)
		}
	}
	return spawns, nil
}

func sizedSpawn(shape string, spawns *[]SpawnSpec) *tengo.UserFunction {
	name := "spawn_" + shape
	return &tengo.UserFunction{Name: name, Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 4 && len(args) != 5 {
			return nil, tengo.ErrWrongNumArguments
		}
		nums, err := floatArgs(name, args[:4])
		if err != nil {
			return nil, err
		}
		rotation := 0.0
		sp := SpawnSpec{Shape: shape, X: nums[0], Y: nums[1], Width: nums[2], Height: nums[3], Rotation: &rotation}
		if len(args) == 5 {
			if sp.Material, err = materialArg(name, args[4]); err != nil {
				return nil, err
			}
		}
		*spawns = append(*spawns, sp)
		return tengo.TrueValue, nil
	}}
}

func floatArgs(fn string, args []tengo.Object) ([]float64, error) {
	out := make([]float64, len(args))
	for i, arg := range args {
		v, ok := tengo.ToFloat64(arg)
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{
				Name:     fmt.Sprintf("%s arg %d", fn, i+1),
				Expected: "float",
				Found:    arg.TypeName(),
			}
		}
		out[i] = v
	}
	return out, nil
}

func materialArg(fn string, arg tengo.Object) (prefabs.MaterialSpec, error) {
	var values map[string]tengo.Object
	switch m := arg.(type) {
	case *tengo.Map:
		values = m.Value
	case *tengo.ImmutableMap:
		values = m.Value
	default:
		return prefabs.MaterialSpec{}, tengo.ErrInvalidArgumentType{
			Name:     fmt.Sprintf("%s material", fn),
			Expected: "map",
			Found:    arg.TypeName(),
		}
	}
	var mat prefabs.MaterialSpec
	fields := map[string]*float64{
		"density":    &mat.Density,
		"friction":   &mat.Friction,
		"elasticity": &mat.Elasticity,
	}
	for key, obj := range values {
		dst, ok := fields[key]
		if !ok {
			return prefabs.MaterialSpec{}, fmt.Errorf("%s: unknown material key %q", fn, key)
		}
		v, ok := tengo.ToFloat64(obj)
		if !ok {
			return prefabs.MaterialSpec{}, fmt.Errorf("%s: material %s must be a number", fn, key)
		}
		*dst = v
	}
	return mat, nil
}
