package demos

import (
	"strings"
	"testing"
)

func TestListEmbeddedDemos(t *testing.T) {
	specs, err := List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(specs) < 3 {
		t.Fatalf("expected at least 3 demos, got %d", len(specs))
	}
	for i := 1; i < len(specs); i++ {
		if specs[i-1].Order > specs[i].Order {
			t.Fatalf("demos not ordered: %q (%d) before %q (%d)", specs[i-1].Name, specs[i-1].Order, specs[i].Name, specs[i].Order)
		}
	}
	if specs[0].File != DefaultDemo {
		t.Fatalf("expected %s first, got %s", DefaultDemo, specs[0].File)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr string
	}{
		{
			name: "minimal",
			src:  "name: x\n",
		},
		{
			name:    "missing_name",
			src:     "title: nothing\n",
			wantErr: "name is required",
		},
		{
			name:    "unknown_shape",
			src:     "name: x\nspawns:\n  - shape: hexagon\n",
			wantErr: "unknown shape",
		},
		{
			name:    "negative_radius",
			src:     "name: x\nspawns:\n  - shape: ball\n    radius: -1\n",
			wantErr: "radius",
		},
		{
			name:    "bad_yaml",
			src:     "name: [\n",
			wantErr: "unmarshal",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.src))
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestInfoTextDefault(t *testing.T) {
	if got := (Spec{Name: "x"}).InfoText(); got != DefaultInfo {
		t.Fatalf("InfoText = %q, want %q", got, DefaultInfo)
	}
	if got := (Spec{Name: "x", Info: "hello"}).InfoText(); got != "hello" {
		t.Fatalf("InfoText = %q, want hello", got)
	}
}

func TestExpand(t *testing.T) {
	spec := Spec{Name: "x", Spawns: []SpawnSpec{
		{Shape: ShapeBall, X: 10, Y: 20, Radius: 5, Count: 3, DX: 30, DY: -1},
		{Shape: ShapeBox, X: 1, Y: 2, Width: 3, Height: 4},
	}}
	got := spec.Expand()
	if len(got) != 4 {
		t.Fatalf("expected 4 spawns, got %d", len(got))
	}
	want := [][2]float64{{10, 20}, {40, 19}, {70, 18}, {1, 2}}
	for i, w := range want {
		if got[i].X != w[0] || got[i].Y != w[1] {
			t.Fatalf("spawn %d at (%v,%v), want (%v,%v)", i, got[i].X, got[i].Y, w[0], w[1])
		}
		if got[i].Count != 0 || got[i].DX != 0 || got[i].DY != 0 {
			t.Fatalf("spawn %d kept repeat fields: %+v", i, got[i])
		}
	}
}

func TestMarshalRoundTripKeepsSpawns(t *testing.T) {
	rot := 0.5
	spec := Spec{Name: "snap", Spawns: []SpawnSpec{{Shape: ShapeBox, X: 1, Y: 2, Width: 3, Height: 4, Rotation: &rot}}}
	data, err := spec.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	back, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v\n%s", err, data)
	}
	if len(back.Spawns) != 1 || back.Spawns[0].Rotation == nil || *back.Spawns[0].Rotation != rot {
		t.Fatalf("rotation lost: %s", data)
	}
}
