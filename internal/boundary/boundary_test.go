package boundary

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/insightdeck/internal/render"
)

func TestBoundaryPassesThroughSuccess(t *testing.T) {
	b := New()
	out := b.Render(func() render.Outcome { return render.Ok(render.Text("ok")) })

	require.NoError(t, out.Err)
	assert.Equal(t, "ok", out.Node.Text)
	assert.Equal(t, StateNormal, b.State())
}

func TestBoundaryLatchesOnError(t *testing.T) {
	b := New()
	calls := 0
	fail := func() render.Outcome {
		calls++
		return render.Fail(errors.New("bad props"))
	}

	out := b.Render(fail)
	require.Error(t, out.Err)
	assert.Equal(t, render.KindFallback, out.Node.Kind)
	assert.Equal(t, FallbackText, out.Node.Text)
	assert.Equal(t, StateErrored, b.State())

	out = b.Render(func() render.Outcome {
		calls++
		return render.Ok(render.Text("recovered"))
	})
	assert.Equal(t, render.KindFallback, out.Node.Kind, "latched boundary does not re-attempt")
	assert.Equal(t, 1, calls)
	assert.EqualError(t, b.Err(), "bad props")
}

func TestBoundaryRecoversPanic(t *testing.T) {
	b := New()
	out := b.Render(func() render.Outcome { panic("boom") })

	require.Error(t, out.Err)
	assert.ErrorIs(t, out.Err, ErrRenderPanic)
	var pe *PanicError
	require.ErrorAs(t, out.Err, &pe)
	assert.Equal(t, "boom", pe.Value)
	assert.NotEmpty(t, pe.Stack)
	assert.Equal(t, StateErrored, b.State())
}

func TestBoundarySiblingsIndependent(t *testing.T) {
	s := NewSet()
	outs := make([]render.Outcome, 3)
	for i, key := range []string{"0", "1", "2"} {
		outs[i] = s.For(key).Render(func() render.Outcome {
			if key == "1" {
				panic("middle block")
			}
			return render.Ok(render.Text("block " + key))
		})
	}

	assert.Equal(t, "block 0", outs[0].Node.Text)
	assert.Equal(t, render.KindFallback, outs[1].Node.Kind)
	assert.Equal(t, "block 2", outs[2].Node.Text)
	assert.Equal(t, []string{"1"}, s.Errored())
}

func TestFreshSetStartsNormal(t *testing.T) {
	s := NewSet()
	s.For("0").Render(func() render.Outcome { return render.Fail(errors.New("x")) })
	assert.Equal(t, StateErrored, s.For("0").State())

	fresh := NewSet()
	assert.Equal(t, StateNormal, fresh.For("0").State())
	assert.Empty(t, fresh.Errored())
}
