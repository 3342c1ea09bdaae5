package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChannelKey(t *testing.T) {
	tests := []struct {
		in      string
		want    ChannelKey
		wantErr bool
	}{
		{in: "U1:ch0", want: ChannelKey{Device: "U1", Channel: "ch0"}},
		{in: " U1 : ch0 ", want: ChannelKey{Device: "U1", Channel: "ch0"}},
		{in: "J3:A:1", want: ChannelKey{Device: "J3", Channel: "A:1"}},
		{in: "U1", wantErr: true},
		{in: ":ch0", wantErr: true},
		{in: "U1:", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseChannelKey(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, must(ParseChannelKey(got.String())))
		})
	}
}

func must(k ChannelKey, err error) ChannelKey {
	if err != nil {
		panic(err)
	}
	return k
}

func TestChannelKeyCompare(t *testing.T) {
	a := NewChannelKey("U1", "ch1")
	b := NewChannelKey("U1", "ch2")
	c := NewChannelKey("U2", "ch0")

	assert.Negative(t, a.Compare(b))
	assert.Negative(t, b.Compare(c))
	assert.Positive(t, c.Compare(a))
	assert.Zero(t, a.Compare(NewChannelKey("U1", "ch1")))
}

func TestNormalize_NFC(t *testing.T) {
	// "é" as e + combining acute versus the precomposed code point.
	decomposed := "Re\u0301f"
	precomposed := "R\u00e9f"
	assert.Equal(t, precomposed, Normalize(" "+decomposed+"\t"))
	assert.Equal(t, NewChannelKey(precomposed, "1"), NewChannelKey(decomposed, "1"))
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, SplitList("  ", ";"))
	assert.Equal(t, []string{"a", "b"}, SplitList(" a ;; b;", ";"))
}

func TestTypeRef(t *testing.T) {
	assert.Equal(t, TypeRef{Library: "daq", Name: "mic_in"}, ParseTypeRef(" daq / mic_in "))
	assert.Equal(t, TypeRef{Name: "mic_in"}, ParseTypeRef("mic_in"))
	assert.True(t, ParseTypeRef("").IsZero())

	tests := []struct {
		a, b string
		want bool
	}{
		{"mic_in", "mic_in", true},
		{"daq/mic_in", "mic_in", true},
		{"mic_in", "daq/mic_in", true},
		{"daq/mic_in", "daq/mic_in", true},
		{"daq/mic_in", "audio/mic_in", false},
		{"mic_in", "mic_out", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseTypeRef(tt.a).Matches(ParseTypeRef(tt.b)), "%s vs %s", tt.a, tt.b)
	}
	assert.Equal(t, "daq/mic_in", ParseTypeRef("daq/mic_in").String())
}

func TestMappingSetDigest(t *testing.T) {
	a := []MappingRecord{
		{Seq: 1, From: "U1:a", To: "U2:a", Kind: KindPair, RunID: "run-1"},
		{Seq: 2, From: "U3:s", To: "n-shield", Kind: KindJunction, RunID: "run-1"},
	}
	b := []MappingRecord{
		{Seq: 7, From: "U3:s", To: "n-shield", Kind: KindJunction, RunID: "run-9"},
		{Seq: 9, From: "U1:a", To: "U2:a", Kind: KindPair, RunID: "run-8"},
	}

	da, err := MappingSetDigest(a)
	require.NoError(t, err)
	db, err := MappingSetDigest(b)
	require.NoError(t, err)
	assert.Equal(t, da, db, "digest ignores order, seq and run id")
	assert.Len(t, da, 64)

	dc, err := MappingSetDigest(a[:1])
	require.NoError(t, err)
	assert.NotEqual(t, da, dc)

	empty, err := MappingSetDigest(nil)
	require.NoError(t, err)
	assert.Equal(t, hashWithDomain(DomainMappingSet, []byte("[]")), empty)
}

func TestHashWithDomainSeparation(t *testing.T) {
	assert.NotEqual(t, hashWithDomain("a", []byte("bc")), hashWithDomain("ab", []byte("c")))
}
