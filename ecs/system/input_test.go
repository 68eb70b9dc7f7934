package system

import (
	"testing"

	"github.com/milk9111/physicstest/ecs"
	"github.com/milk9111/physicstest/ecs/component"
)

type scriptedPointers struct {
	frames [][]PointerSample
	frame  int
}

func (s *scriptedPointers) next(dst []PointerSample) []PointerSample {
	if s.frame >= len(s.frames) {
		return dst
	}
	dst = append(dst, s.frames[s.frame]...)
	s.frame++
	return dst
}

func TestPointerSystemEvents(t *testing.T) {
	tests := []struct {
		name    string
		frames  [][]PointerSample
		blocked []bool
		want    [][]component.PointerEvent
	}{
		{
			name: "press_hold_move_release",
			frames: [][]PointerSample{
				{{ID: 0, X: 1, Y: 2}},
				{{ID: 0, X: 1, Y: 2}},
				{{ID: 0, X: 5, Y: 2}},
				nil,
			},
			want: [][]component.PointerEvent{
				{{ID: 0, X: 1, Y: 2, Phase: component.PointerBegan}},
				nil,
				{{ID: 0, X: 5, Y: 2, Phase: component.PointerMoved}},
				{{ID: 0, X: 5, Y: 2, Phase: component.PointerEnded}},
			},
		},
		{
			name: "two_touches_sorted_by_id",
			frames: [][]PointerSample{
				{{ID: 2, X: 20, Y: 20}, {ID: 1, X: 10, Y: 10}},
				{{ID: 2, X: 21, Y: 20}},
			},
			want: [][]component.PointerEvent{
				{
					{ID: 1, X: 10, Y: 10, Phase: component.PointerBegan},
					{ID: 2, X: 20, Y: 20, Phase: component.PointerBegan},
				},
				{
					{ID: 1, X: 10, Y: 10, Phase: component.PointerEnded},
					{ID: 2, X: 21, Y: 20, Phase: component.PointerMoved},
				},
			},
		},
		{
			name: "blocked_start_is_ignored_until_release",
			frames: [][]PointerSample{
				{{ID: 0, X: 1, Y: 1}},
				{{ID: 0, X: 2, Y: 1}},
				nil,
				{{ID: 0, X: 3, Y: 1}},
			},
			blocked: []bool{true, false, false, false},
			want: [][]component.PointerEvent{
				nil,
				nil,
				nil,
				{{ID: 0, X: 3, Y: 1, Phase: component.PointerBegan}},
			},
		},
		{
			name: "blocking_mid_drag_does_not_cancel",
			frames: [][]PointerSample{
				{{ID: 0, X: 1, Y: 1}},
				{{ID: 0, X: 2, Y: 1}},
			},
			blocked: []bool{false, true},
			want: [][]component.PointerEvent{
				{{ID: 0, X: 1, Y: 1, Phase: component.PointerBegan}},
				{{ID: 0, X: 2, Y: 1, Phase: component.PointerMoved}},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			src := &scriptedPointers{frames: tc.frames}
			frame := 0
			ps := NewPointerSystemWithSource(src.next, func() bool {
				return frame < len(tc.blocked) && tc.blocked[frame]
			})
			w := ecs.NewWorld()
			for ; frame < len(tc.want); frame++ {
				ps.Update(w)
				_, input := ecs.Singleton(w, component.PointerInputComponent)
				want := tc.want[frame]
				if len(input.Events) != len(want) {
					t.Fatalf("frame %d: got %v, want %v", frame, input.Events, want)
				}
				for i := range want {
					if input.Events[i] != want[i] {
						t.Fatalf("frame %d event %d: got %+v, want %+v", frame, i, input.Events[i], want[i])
					}
				}
			}
		})
	}
}
