package services

import (
	"strings"
	"testing"

	"payyourfriends/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildReportMessage(t *testing.T) {
	msg, ok := BuildReportMessage("Ben", []models.PendingDetail{
		{OwesTo: "Ana", Description: "Pizza", Amount: decimal.RequireFromString("10")},
		{OwesTo: "Cleo", Description: "Cinema <3D>", Amount: decimal.RequireFromString("7.5")},
	})
	require.True(t, ok)

	assert.Equal(t, "Your Payment Report", msg.Subject)
	assert.Equal(t, "Hello Ben,\n\nHere is a summary of what you owe:\n\n"+
		"- You owe $10.00 for \"Pizza\" to Ana.\n"+
		"- You owe $7.50 for \"Cinema <3D>\" to Cleo.\n"+
		"\nTotal: $17.50\n\nPlease settle your dues!", msg.Text)

	assert.Contains(t, msg.HTML, "Hello <strong>Ben</strong>")
	assert.Contains(t, msg.HTML, "Cinema &lt;3D&gt;")
	assert.Contains(t, msg.HTML, "$17.50")
	assert.False(t, strings.Contains(msg.HTML, "<3D>"))
}

func TestBuildReportMessageSkipsEmpty(t *testing.T) {
	_, ok := BuildReportMessage("Ben", nil)
	assert.False(t, ok)
}
