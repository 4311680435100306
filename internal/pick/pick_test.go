package pick

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(labels ...string) Env {
	return Env{Count: len(labels), Labels: labels, Last: -1}
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr string
	}{
		{name: "syntax error", src: "rand(", wantErr: "invalid target expression"},
		{name: "unknown variable", src: "nope + 1", wantErr: "invalid target expression"},
		{name: "wrong argument type", src: `rand("x")`, wantErr: "invalid target expression"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.src)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPick_Literals(t *testing.T) {
	tests := []struct {
		name string
		src  string
		env  Env
		want int
	}{
		{name: "constant", src: "2", env: env("a", "b", "c"), want: 2},
		{name: "last slice", src: "count - 1", env: env("a", "b", "c", "d"), want: 3},
		{name: "by label", src: `findIndex(labels, # == "jackpot")`, env: env("a", "jackpot", "c"), want: 1},
		{name: "cycle after last", src: "(last + 1) % count", env: Env{Count: 3, Last: 2}, want: 0},
		{name: "float that is an integer", src: "4 / 2", env: env("a", "b", "c"), want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Compile(tt.src)
			require.NoError(t, err)

			got, err := p.Pick(tt.env)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPick_RejectsBadResults(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		env     Env
		wantErr string
		wantIs  error
	}{
		{name: "negative", src: "-1", env: env("a"), wantIs: ErrOutOfRange},
		{name: "past end", src: "count", env: env("a", "b"), wantIs: ErrOutOfRange},
		{name: "label missing", src: `findIndex(labels, # == "x")`, env: env("a"), wantIs: ErrOutOfRange},
		{name: "nil", src: "nil", env: env("a"), wantIs: ErrOutOfRange},
		{name: "find miss in larger wheel", src: `findIndex(labels, # == "z")`, env: env("a", "b", "c"), wantIs: ErrOutOfRange},
		{name: "fraction", src: "1 / 2", env: env("a", "b"), wantErr: "not an integer"},
		{name: "string", src: `"one"`, env: env("a", "b"), wantErr: "must be an integer"},
		{name: "rand of zero", src: "rand(count)", env: Env{}, wantErr: "must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Compile(tt.src)
			require.NoError(t, err)

			_, err = p.Pick(tt.env)
			require.Error(t, err)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
			if tt.wantErr != "" {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestPick_DefaultIsUniformRand(t *testing.T) {
	p, err := Compile("", WithSeed(42))
	require.NoError(t, err)
	assert.Equal(t, DefaultExpr, p.String())

	seen := make(map[int]int)
	e := env("a", "b", "c", "d")
	for range 400 {
		idx, err := p.Pick(e)
		require.NoError(t, err)
		seen[idx]++
	}
	assert.Len(t, seen, 4, "all slices reachable")
}

func TestPick_SeedIsReproducible(t *testing.T) {
	a, err := Compile("rand(count)", WithSeed(7))
	require.NoError(t, err)
	b, err := Compile("rand(count)", WithSeed(7))
	require.NoError(t, err)

	e := env("a", "b", "c", "d", "e", "f")
	for range 20 {
		x, err := a.Pick(e)
		require.NoError(t, err)
		y, err := b.Pick(e)
		require.NoError(t, err)
		assert.Equal(t, x, y)
	}
}

func TestPick_Weighted(t *testing.T) {
	p, err := Compile("weighted([0, 1, 0, 3])", WithSeed(1))
	require.NoError(t, err)

	seen := make(map[int]int)
	e := env("a", "b", "c", "d")
	for range 1000 {
		idx, err := p.Pick(e)
		require.NoError(t, err)
		seen[idx]++
	}

	assert.Zero(t, seen[0], "zero weight never picked")
	assert.Zero(t, seen[2], "zero weight never picked")
	assert.Greater(t, seen[3], seen[1])
}

func TestPick_WeightedErrors(t *testing.T) {
	tests := []struct {
		src     string
		wantErr string
	}{
		{src: "weighted([0, 0])", wantErr: "positive"},
		{src: "weighted([1, -1])", wantErr: "negative"},
		{src: `weighted([1, "x"])`, wantErr: "expected number"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			p, err := Compile(tt.src)
			require.NoError(t, err)
			_, err = p.Pick(env("a", "b"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
