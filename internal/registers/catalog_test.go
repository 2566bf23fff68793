package registers

import (
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/motorctl/internal/codec"
)

func TestDefault_Invariants(t *testing.T) {
	c := Default()
	require.Equal(t, len(Definitions()), c.Len())

	names := map[string]bool{}
	numbers := map[uint16]bool{}

	for _, d := range c.List("") {
		key := strings.ToUpper(d.Name)
		assert.False(t, names[key], "duplicate name %s", d.Name)
		assert.False(t, numbers[d.Number], "duplicate number %d", d.Number)
		names[key] = true
		numbers[d.Number] = true

		assert.Equal(t, 2*d.Number, d.Address())
		assert.Equal(t, uint16(WordWidth), d.Words())
		assert.Equal(t, 32, d.SizeBits())
		assert.Equal(t, !d.ReadOnly(), d.Writable())
	}
}

func TestResolve_NameAndNumber(t *testing.T) {
	c := Default()

	for _, d := range c.List("") {
		byUpper, err := c.Resolve(strings.ToUpper(d.Name))
		require.NoError(t, err)
		byLower, err := c.Resolve(strings.ToLower(d.Name))
		require.NoError(t, err)
		byString, err := c.Resolve(strconv.Itoa(int(d.Number)))
		require.NoError(t, err)
		byInt, err := c.ResolveNumber(int(d.Number))
		require.NoError(t, err)

		assert.Equal(t, d.Name, byUpper.Name)
		assert.Equal(t, d.Name, byLower.Name)
		assert.Equal(t, d.Name, byString.Name)
		assert.Equal(t, d.Name, byInt.Name)
	}
}

func TestResolve_NotFound(t *testing.T) {
	c := Default()

	for _, id := range []string{"BADNAME", "999", "", "-1", "V_SOLLX"} {
		_, err := c.Resolve(id)
		assert.ErrorIs(t, err, ErrNotFound, "id %q", id)
	}

	_, err := c.ResolveNumber(0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList_SortedAndFiltered(t *testing.T) {
	c := Default()

	all := c.List("")
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].Number, all[i].Number)
	}
	// COMMAND_REG (211) sorts after U_BUS (198) even though it is defined first.
	assert.Equal(t, CommandRegister, all[len(all)-1].Name)

	var got []string
	for _, d := range c.List("p_ist") {
		got = append(got, d.Name)
	}
	want := []string{"P_IST", "P_IST_TURNTAB", "MIN_P_IST", "MAX_P_IST"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("filter p_ist (-want +got):\n%s", diff)
	}

	byNum := c.List("35")
	require.Len(t, byNum, 1)
	assert.Equal(t, "ERR_STAT", byNum[0].Name)

	assert.Empty(t, c.List("nothing-matches"))
}

func TestNewCatalog_RejectsCollisions(t *testing.T) {
	s32 := codec.SignedInt(32)

	_, err := NewCatalog([]Descriptor{
		{Name: "A", Number: 1, Codec: s32},
		{Name: "a", Number: 2, Codec: s32},
	})
	assert.Error(t, err)

	_, err = NewCatalog([]Descriptor{
		{Name: "A", Number: 1, Codec: s32},
		{Name: "B", Number: 1, Codec: s32},
	})
	assert.Error(t, err)

	_, err = NewCatalog([]Descriptor{
		{Name: "W", Number: 1, Codec: codec.SignedInt(16)},
	})
	assert.Error(t, err)

	assert.Panics(t, func() {
		MustNewCatalog([]Descriptor{{Number: 1, Codec: s32}})
	})
}

func TestModes(t *testing.T) {
	n, ok := Modes.Ordinal("velocity")
	require.True(t, ok)
	assert.Equal(t, int64(1), n)

	n, ok = Modes.Ordinal("IIHOME")
	require.True(t, ok)
	assert.Equal(t, int64(26), n)

	_, ok = Modes.Ordinal("WARP")
	assert.False(t, ok)

	assert.Len(t, Modes.Symbols(), 27)
}
