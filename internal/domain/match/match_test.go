package match

import (
	"testing"

	"github.com/forPelevin/furycut/internal/domain/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"  Cheren’s   Team  ": "cheren's team",
		"\"Leader  MISTY\"":        "leader misty",
		"riv�al's team":       "rival's team",
		"a b":                 "a b",
	}
	for in, want := range tests {
		assert.Equal(t, want, Normalize(in), "Normalize(%q)", in)
	}
}

func TestMatch_TeamFamily_RivalVariants(t *testing.T) {
	p, err := profile.Lookup("black")
	require.NoError(t, err)
	rules := RulesFor(p)

	tests := []struct {
		text string
		want Identity
	}{
		{"rival's team", "rival"},
		{"rival’s team", "rival"},
		{"rivals team", "rival"},     // missing apostrophe
		{"rivalt's team", "rival"},   // recognizer misread
		{"rival 2's team", "rival 2"},
		{"rival2's team", "rival 2"},
		{"rival 3s team", "rival 3"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			id, ok := Match(tt.text, rules)
			require.True(t, ok, "expected a match for %q", tt.text)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestMatch_TeamFamily_NamedTrainers(t *testing.T) {
	p, err := profile.Lookup("black")
	require.NoError(t, err)
	rules := RulesFor(p)

	id, ok := Match("cheren's team", rules)
	require.True(t, ok)
	assert.Equal(t, Identity("cheren"), id)

	// "n" is a registered trainer but must not match inside another name.
	_, ok = Match("rolan's team", rules)
	assert.False(t, ok, "substring trainer name must not match across a word boundary")

	id, ok = Match("n's team", rules)
	require.True(t, ok)
	assert.Equal(t, Identity("n"), id)
}

func TestMatch_GarbageReturnsNoMatch(t *testing.T) {
	p, err := profile.Lookup("black")
	require.NoError(t, err)
	rules := RulesFor(p)

	for _, text := range []string{"", "   ", "xq#@!", "wild encounter", "pokemon center"} {
		_, ok := Match(text, rules)
		assert.False(t, ok, "garbage %q must not match", text)
	}
}

func TestMatch_LeaderFamily(t *testing.T) {
	p, err := profile.Lookup("emerald")
	require.NoError(t, err)
	rules := RulesFor(p)

	tests := []struct {
		text string
		want Identity
	}{
		{"leader roxanne", "roxanne"},
		{"leaderroxanne", "roxanne"}, // words run together
		{"rival 2", "rival 2"},
		{"rivals", "rival"},
		{"elite four sidney", "sidney"},
		{"'lite four sidney", "sidney"}, // "Elite" misread as "lite"
		{"champion wallace", "wallace"},
		{"steven", "steven"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			id, ok := Match(tt.text, rules)
			require.True(t, ok, "expected a match for %q", tt.text)
			assert.Equal(t, tt.want, id)
		})
	}

	// Double battle gym leaders need both names present.
	id, ok := Match("tate and some liza text", rules)
	require.True(t, ok)
	assert.Equal(t, Identity("tate & liza"), id)
	_, ok = Match("leader tate", rules)
	assert.False(t, ok)
}

func TestMatch_LeaderFamily_GenericTrainerFilter(t *testing.T) {
	p, err := profile.Lookup("heartgold")
	require.NoError(t, err)
	rules := RulesFor(p)

	// A generic trainer whose name contains a boss name must not match.
	_, ok := Match("gentleman alfred", rules)
	assert.False(t, ok)
}

func TestMatch_Misreads(t *testing.T) {
	p, err := profile.Lookup("platinum")
	require.NoError(t, err)
	rules := RulesFor(p)

	tests := []struct {
		text string
		want Identity
	}{
		{"cunthia", "cynthia"},
		{"cynth1a", "cynthia"},
		{"curus", "cyrus"},
		{"rivai 2", "rival 2"},
		{"kvai2", "rival 2"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			id, ok := Match(tt.text, rules)
			require.True(t, ok, "expected a match for %q", tt.text)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestMatch_AliasesResolveToOneIdentity(t *testing.T) {
	// The HGSS rival is displayed as "Silver"; both spellings are one trainer.
	p, err := profile.Lookup("heartgold")
	require.NoError(t, err)
	rules := RulesFor(p)

	idFromName, ok := Match("rival silver", rules)
	require.True(t, ok)
	idBare, ok := Match("silver", rules)
	require.True(t, ok)
	assert.Equal(t, idFromName, idBare)
	assert.Equal(t, Identity("rival"), idFromName)

	// The FRLG final boss is both "champion" and the rival.
	p, err = profile.Lookup("firered")
	require.NoError(t, err)
	rules = RulesFor(p)

	idChampion, ok := Match("champion", rules)
	require.True(t, ok)
	idRival, ok := Match("rival 1", rules)
	require.True(t, ok)
	assert.Equal(t, Identity("rival"), idChampion)
	assert.Equal(t, Identity("rival 1"), idRival)
}

func TestMatch_FirstRuleWins(t *testing.T) {
	p, err := profile.Lookup("black")
	require.NoError(t, err)
	rules := RulesFor(p)

	// Numbered rival rules precede the bare rule, so the number survives.
	id, ok := Match("rival 2's team", rules)
	require.True(t, ok)
	assert.Equal(t, Identity("rival 2"), id)
}
