package mmr

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeaks(t *testing.T) {
	tests := []struct {
		size  uint64
		peaks []Peak
	}{
		{0, nil},
		{1, []Peak{{0, 0}}},
		{3, []Peak{{2, 1}}},
		{4, []Peak{{2, 1}, {3, 0}}},
		{7, []Peak{{6, 2}}},
		{8, []Peak{{6, 2}, {7, 0}}},
		{10, []Peak{{6, 2}, {9, 1}}},
		{11, []Peak{{6, 2}, {9, 1}, {10, 0}}},
		{15, []Peak{{14, 3}}},
		{18, []Peak{{14, 3}, {17, 1}}},
		{19, []Peak{{14, 3}, {17, 1}, {18, 0}}},
		{22, []Peak{{14, 3}, {21, 2}}},
		{25, []Peak{{14, 3}, {21, 2}, {24, 1}}},
		{26, []Peak{{14, 3}, {21, 2}, {24, 1}, {25, 0}}},
		{31, []Peak{{30, 4}}},
		{32, []Peak{{30, 4}, {31, 0}}},
		{74, []Peak{{62, 5}, {69, 2}, {72, 1}, {73, 0}}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.peaks, Peaks(tt.size), "size %d", tt.size)
	}
}

func TestPeakHashCount(t *testing.T) {
	tests := []struct {
		size  uint64
		count uint64
	}{
		{0, 0},
		{1, 1},
		{3, 1},
		{4, 2},
		{7, 1},
		{10, 2},
		{11, 3},
		{19, 3},
		{26, 4},
		{31, 1},
		{32, 2},
		{74, 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.count, PeakHashCount(tt.size), "size %d", tt.size)
		assert.Len(t, Peaks(tt.size), int(tt.count), "size %d", tt.size)
	}

	// a single-element proof carries the untouched peak digests plus the
	// sibling path, so for a leaf that is its own peak the hash count is
	// exactly PeakHashCount(size)-1
	m := New(sha256.New())
	for i := 0; i < 11; i++ {
		m.Add([]byte{byte(i)})
	}
	proof, err := m.Proof(18)
	require.NoError(t, err)
	require.EqualValues(t, PeakHashCount(m.Size())-1, len(proof.Hashes()))
}

func TestPeakIteratorExhaustion(t *testing.T) {
	it := NewPeakIterator(19)
	for i := 0; i < 3; i++ {
		_, ok := it.Next()
		require.True(t, ok)
	}
	for i := 0; i < 4; i++ {
		_, ok := it.Next()
		require.False(t, ok, "iterator must stay exhausted")
	}
}

func TestPeakLeftmost(t *testing.T) {
	// the subtrees of the peaks of a 19 node MMR cover [0,14], [15,17], [18,18]
	assert.Equal(t, uint64(0), Peak{Pos: 14, Height: 3}.Leftmost())
	assert.Equal(t, uint64(15), Peak{Pos: 17, Height: 1}.Leftmost())
	assert.Equal(t, uint64(18), Peak{Pos: 18, Height: 0}.Leftmost())
}

func TestPeaksCoverSize(t *testing.T) {
	// for every reachable size the peak subtrees exactly tile [0, size)
	m := New(sha256.New())
	for i := 0; i < 200; i++ {
		m.Add([]byte{byte(i)})
		size := m.Size()
		var covered uint64
		for _, p := range Peaks(size) {
			require.Equal(t, covered, p.Leftmost(), "size %d", size)
			covered = p.Pos + 1
		}
		require.Equal(t, size, covered, "size %d", size)
	}
}

func TestLeafPosition(t *testing.T) {
	want := []uint64{
		0, 1, 3, 4, 7, 8, 10, 11, 15, 16, 18, 19, 22, 23, 25, 26, 31, 32, 34,
		35, 38, 39, 41, 42, 46, 47, 49, 50, 53, 54, 56, 57, 63, 64, 66, 67,
		70, 71, 73,
	}
	m := New(sha256.New())
	for i, w := range want {
		assert.Equal(t, w, LeafPosition(uint64(i)))
		assert.Equal(t, w, m.Add([]byte{byte(i)}), "position returned by Add")
	}
}
