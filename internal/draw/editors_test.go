package draw

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/paulmach/orb"
)

func TestEditors(t *testing.T) {
	square := []orb.Point{{0, 0}, {2, 0}, {2, 2}, {0, 2}}
	tests := []struct {
		name    string
		editor  Editor
		handles []orb.Point
		index   int
		delta   orb.Point
		want    []orb.Point
	}{
		{
			name: "isolated", editor: IsolatedEditor,
			handles: square, index: 1, delta: orb.Point{1, 1},
			want: []orb.Point{{0, 0}, {3, 1}, {2, 2}, {0, 2}},
		},
		{
			name: "isolated out of range", editor: IsolatedEditor,
			handles: square, index: 7, delta: orb.Point{1, 1},
			want: square,
		},
		{
			name: "symmetric", editor: SymmetricEditor,
			handles: square, index: 0, delta: orb.Point{-1, -1},
			want: []orb.Point{{-1, -1}, {2, 0}, {3, 3}, {0, 2}},
		},
		{
			name: "mirror", editor: MirrorEditor,
			handles: square, index: 1, delta: orb.Point{1, 0},
			want: []orb.Point{{0, 0}, {3, 0}, {2, 2}, {1, 2}},
		},
		{
			name: "rectangle keeps right angles", editor: RectangleEditor,
			handles: square, index: 2, delta: orb.Point{1, 1},
			want: []orb.Point{{0, 0}, {3, 0}, {3, 3}, {0, 3}},
		},
		{
			name: "rectangle falls back for triangles", editor: RectangleEditor,
			handles: square[:3], index: 2, delta: orb.Point{1, 1},
			want: []orb.Point{{0, 0}, {2, 0}, {3, 3}},
		},
		{
			name: "circle center moves both", editor: CircleEditor,
			handles: []orb.Point{{0, 0}, {1, 0}}, index: 0, delta: orb.Point{1, 1},
			want: []orb.Point{{1, 1}, {2, 1}},
		},
		{
			name: "circle edge moves alone", editor: CircleEditor,
			handles: []orb.Point{{0, 0}, {1, 0}}, index: 1, delta: orb.Point{1, 0},
			want: []orb.Point{{0, 0}, {2, 0}},
		},
		{
			name: "proportional doubles", editor: ProportionalEditor,
			handles: []orb.Point{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}, index: 2, delta: orb.Point{1, 1},
			want: []orb.Point{{-2, -2}, {2, -2}, {2, 2}, {-2, 2}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := append([]orb.Point(nil), tt.handles...)
			got := tt.editor(EditContext{Handles: tt.handles, HandleIndex: tt.index, Delta: tt.delta})
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
				t.Errorf("handles mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(before, tt.handles); diff != "" {
				t.Errorf("editor modified its input:\n%s", diff)
			}
		})
	}
}

func TestEditorFor(t *testing.T) {
	reg := mergeEditors(nil)
	marker := orb.Point{42, 42}
	reg["custom"] = func(EditContext) []orb.Point { return []orb.Point{marker} }

	tests := []struct {
		name  string
		props Properties
		want  orb.Point
	}{
		{"editor property wins", Properties{Editor: "custom", Generator: GeneratorCircle}, marker},
		{"circle generator default", Properties{Generator: GeneratorCircle}, orb.Point{1, 1}},
		{"unknown editor falls back", Properties{Editor: "nope"}, orb.Point{1, 1}},
	}
	ctx := EditContext{Handles: []orb.Point{{0, 0}, {1, 0}}, HandleIndex: 0, Delta: orb.Point{1, 1}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := editorFor(reg, Feature{Properties: tt.props})(ctx)
			if !got[0].Equal(tt.want) {
				t.Errorf("first handle = %v, want %v", got[0], tt.want)
			}
		})
	}
	// isolated leaves the edge alone, circle moves it
	circle := editorFor(reg, Feature{Properties: Properties{Generator: GeneratorCircle}})(ctx)
	if !circle[1].Equal(orb.Point{2, 1}) {
		t.Errorf("circle edge = %v, want [2 1]", circle[1])
	}
}
