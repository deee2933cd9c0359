package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBonusProgress_TryLetter(t *testing.T) {
	var template [26]int
	template['a'-'a'] = 2
	template['b'-'a'] = 1

	bp := NewBonusProgress(template)

	assert.False(t, bp.TryLetter('a', template))
	assert.False(t, bp.TryLetter('b', template))
	// Last remaining quota: depletes and resets.
	assert.True(t, bp.TryLetter('A', template))
	assert.Equal(t, NewBonusProgress(template), bp)
}

func TestBonusProgress_InertLetters(t *testing.T) {
	var template [26]int
	template['a'-'a'] = 1

	bp := NewBonusProgress(template)

	// Letters with a zero template never decrement below zero and never
	// trigger an award on their own.
	assert.False(t, bp.TryLetter('z', template))
	assert.False(t, bp.TryLetter('z', template))
	assert.Equal(t, 1, bp['a'-'a'])
}

func TestBonusProgress_NonLettersIgnored(t *testing.T) {
	var template [26]int
	template['a'-'a'] = 1
	bp := NewBonusProgress(template)

	assert.False(t, bp.TryLetter('3', template))
	assert.False(t, bp.TryLetter('-', template))
	assert.False(t, bp.TryLetter('é', template))
	assert.True(t, bp.TryLetter('a', template))
}

func TestBonusProgress_CumulativeAcrossWords(t *testing.T) {
	// Exactly one award fires when the cumulative tries across words
	// reach the template total.
	var template [26]int
	for i := range template {
		template[i] = 1
	}
	bp := NewBonusProgress(template)

	awards := 0
	for c := 'a'; c <= 'z'; c++ {
		if bp.TryLetter(c, template) {
			awards++
		}
	}
	assert.Equal(t, 1, awards)
	assert.Equal(t, NewBonusProgress(template), bp)
}
