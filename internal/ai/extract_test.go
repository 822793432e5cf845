package ai

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-intake/internal/domain"
)

func TestExtractFencedAndUnfencedEquivalent(t *testing.T) {
	payload := `{"summary":"two billing complaints","common_issues":["billing"],"insights":["spike on invoices"],"recommendations":["audit invoice job"]}`

	plain, err := Extract[domain.AnalysisResult](payload)
	require.NoError(t, err)

	fenced, err := Extract[domain.AnalysisResult]("```json\n" + payload + "\n```")
	require.NoError(t, err)
	assert.Equal(t, plain, fenced)

	bare, err := Extract[domain.AnalysisResult]("```\n" + payload + "\n```")
	require.NoError(t, err)
	assert.Equal(t, plain, bare)
}

func TestExtractWhitespacePadding(t *testing.T) {
	result, err := Extract[domain.TicketInsight]("\n\n  {\"urgency\":\"high\"}  \n")
	require.NoError(t, err)
	assert.Equal(t, "high", result.Urgency)
}

func TestExtractUnparseable(t *testing.T) {
	cases := map[string]string{
		"truncated":      `{"summary":"cut off`,
		"prose":          "Sure! Here is the analysis you asked for.",
		"wrongTopLevel":  `["not","an","object"]`,
		"emptyFence":     "```json",
		"empty":          "",
		"onlyWhitespace": "   \n\t",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Extract[domain.AnalysisResult](input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnparseable))
		})
	}
}

func TestStripFenceLeavesPlainTextAlone(t *testing.T) {
	assert.Equal(t, `{"a":1}`, StripFence(`  {"a":1}  `))
}
