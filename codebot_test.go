package codebot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgramString(t *testing.T) {
	tests := []struct {
		name     string
		program  Program
		expected string
	}{
		{"Empty", nil, ""},
		{"Single", Program{MotionForward}, "forward"},
		{"All", Program{MotionForward, MotionReverse, MotionPivotLeft, MotionPivotRight}, "forward reverse left right"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.program.String())
			if tt.program != nil {
				assert.Equal(t, tt.program, ParseProgram(tt.expected))
			}
		})
	}
}

func TestParseProgramSkipsUnknown(t *testing.T) {
	assert.Equal(t, Program{MotionPivotLeft, MotionReverse}, ParseProgram(" LEFT  jump reverse "))
	assert.Empty(t, ParseProgram(""))
}

func TestMotionIsTurn(t *testing.T) {
	assert.False(t, MotionForward.IsTurn())
	assert.False(t, MotionReverse.IsTurn())
	assert.True(t, MotionPivotLeft.IsTurn())
	assert.True(t, MotionPivotRight.IsTurn())
}

func TestMenuPageNext(t *testing.T) {
	tests := []struct {
		page     MenuPage
		expected MenuPage
	}{
		{MenuNone, MenuLanguage},
		{MenuLanguage, MenuBalance},
		{MenuBalance, MenuDrive},
		{MenuDrive, MenuTurn},
		{MenuTurn, MenuVolume},
		{MenuVolume, MenuDataLog},
		{MenuDataLog, MenuLanguage},
		{MenuPage(42), MenuLanguage},
	}

	for _, tt := range tests {
		t.Run(tt.page.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.page.Next())
		})
	}
}

func TestLanguagePick(t *testing.T) {
	assert.Equal(t, "Go", LanguageEnglish.Pick("Go", "Ir"))
	assert.Equal(t, "Ir", LanguageSpanish.Pick("Go", "Ir"))
	assert.Equal(t, "ESP", LanguageSpanish.String())
	assert.Equal(t, "ENG", Language(0).String())
}
