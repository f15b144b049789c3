package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testObject struct {
	Name     string
	Location [3]float64 `graph:"location"`
	Visible  bool
	Samples  int
	hidden   float64
}

type testScene struct {
	Objects []testObject
	Lamps   map[string]*testObject
	Props   map[string]float64
	Camera  testObject
}

func newTestScene() *testScene {
	return &testScene{
		Objects: []testObject{
			{Name: "Cube", Location: [3]float64{1, 2, 3}, Visible: true},
			{Name: "Cone"},
		},
		Lamps: map[string]*testObject{"Key": {Name: "Key", Samples: 4}},
		Props: map[string]float64{"exposure": 0.5},
		Camera: testObject{
			Name: "Cam",
		},
	}
}

func TestReflect_AttrAndTags(t *testing.T) {
	sc := newTestScene()
	r := NewReflect(sc)

	cam, err := r.Attr(r.Root(), "camera")
	require.NoError(t, err)
	require.IsType(t, &testObject{}, cam)

	loc, err := r.Attr(cam, "location")
	require.NoError(t, err)
	assert.IsType(t, &[3]float64{}, loc)

	_, err = r.Attr(cam, "hidden")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = r.Attr(cam, "Name.Len")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestReflect_NamedCollection(t *testing.T) {
	sc := newTestScene()
	r := NewReflect(sc)

	cube, err := r.Indexed(r.Root(), "objects", "Cube")
	require.NoError(t, err)

	require.NoError(t, r.SetIndexed(cube, "location", 0, 7.5))
	assert.Equal(t, 7.5, sc.Objects[0].Location[0])

	require.NoError(t, r.SetAttr(cube, "visible", false))
	assert.False(t, sc.Objects[0].Visible)

	v, err := r.Indexed(cube, "location", 1)
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)

	_, err = r.Indexed(r.Root(), "objects", "Torus")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = r.Indexed(r.Root(), "objects", 5)
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestReflect_Maps(t *testing.T) {
	sc := newTestScene()
	r := NewReflect(sc)

	lamp, err := r.Indexed(r.Root(), "lamps", "Key")
	require.NoError(t, err)

	require.NoError(t, r.SetAttr(lamp, "samples", 8))
	assert.Equal(t, 8, sc.Lamps["Key"].Samples)

	require.NoError(t, r.SetIndexed(r.Root(), "props", "exposure", 0.75))
	assert.Equal(t, 0.75, sc.Props["exposure"])

	props, err := r.Attr(r.Root(), "Props")
	require.NoError(t, err)
	require.NoError(t, r.SetAttr(props, "exposure", 1.0))
	assert.Equal(t, 1.0, sc.Props["exposure"])

	require.ErrorIs(t, r.SetIndexed(r.Root(), "props", "gamma", 2.2), ErrNotFound)
	require.ErrorIs(t, r.SetIndexed(r.Root(), "props", 0, 2.2), ErrKeyType)
}

func TestReflect_Conversion(t *testing.T) {
	sc := newTestScene()
	r := NewReflect(sc)

	cube, err := r.Indexed(r.Root(), "objects", 0)
	require.NoError(t, err)

	require.NoError(t, r.SetAttr(cube, "samples", int64(12)))
	assert.Equal(t, 12, sc.Objects[0].Samples)

	err = r.SetAttr(cube, "visible", 1.0)
	require.ErrorIs(t, err, ErrNotSettable)

	err = r.SetAttr(cube, "name", 3)
	require.ErrorIs(t, err, ErrNotSettable)
}

func TestReflect_NonPointerRootIsReadOnly(t *testing.T) {
	r := NewReflect(testObject{Samples: 2})

	v, err := r.Attr(r.Root(), "samples")
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	require.ErrorIs(t, r.SetAttr(r.Root(), "samples", 3), ErrNotSettable)
}
