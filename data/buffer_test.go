package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuffer_RecordsEventsInOrder(t *testing.T) {
	b := NewBuffer()

	require.NoError(t, b.SetContentInfo(KindHTML, DirLTR))
	require.NoError(t, b.WriteString("<b>"))
	require.NoError(t, b.EnterLog(LogStatement{ID: 7, Name: "greeting"}))
	require.NoError(t, b.WriteString("hi"))
	require.NoError(t, b.ExitLog())
	require.NoError(t, b.WriteLogCall(LoggingCall{Name: "counter", Placeholder: "42"}, nil))
	require.NoError(t, b.WriteString("</b>"))

	events := b.Events()
	require.Len(t, events, 7)
	assert.Equal(t, EventContentInfo, events[0].Type)
	assert.Equal(t, EventText, events[1].Type)
	assert.Equal(t, EventEnterLog, events[2].Type)
	assert.Equal(t, "greeting", events[2].Statement.Name)
	assert.Equal(t, EventText, events[3].Type)
	assert.Equal(t, EventExitLog, events[4].Type)
	assert.Equal(t, EventLogCall, events[5].Type)
	assert.Equal(t, "counter", events[5].Call.Name)
	assert.Equal(t, EventText, events[6].Type)

	assert.Equal(t, "<b>hi</b>", b.String())
}

func TestBuffer_CoalescesConsecutiveText(t *testing.T) {
	b := NewBuffer()

	require.NoError(t, b.WriteString("a"))
	require.NoError(t, b.WriteString("b"))
	require.NoError(t, b.WriteString(""))
	require.NoError(t, b.WriteString("c"))

	require.Len(t, b.Events(), 1)
	assert.Equal(t, "abc", b.Events()[0].Text)
}

func TestBuffer_ReplayReproducesIdenticalLog(t *testing.T) {
	b := NewBuffer()
	require.NoError(t, b.SetContentInfo(KindText, DirNeutral))
	require.NoError(t, b.WriteString("one"))
	require.NoError(t, b.EnterLog(LogStatement{ID: 1}))
	require.NoError(t, b.WriteString("two"))
	require.NoError(t, b.ExitLog())

	replayed := NewBuffer()
	require.NoError(t, b.ReplayOn(replayed))

	require.Len(t, replayed.Events(), len(b.Events()))
	for i, e := range b.Events() {
		assert.Equal(t, e.Type, replayed.Events()[i].Type, "event %d", i)
		assert.Equal(t, e.Text, replayed.Events()[i].Text, "event %d", i)
	}
	assert.Equal(t, b.String(), replayed.String())
}

func TestBuffer_ContentInfoFirstCallWins(t *testing.T) {
	b := NewBuffer()
	require.NoError(t, b.SetContentInfo(KindHTML, DirLTR))
	require.NoError(t, b.SetContentInfo(KindCSS, DirRTL))

	infos := 0
	for _, e := range b.Events() {
		if e.Type == EventContentInfo {
			infos++
			assert.Equal(t, KindHTML, e.Kind)
			assert.Equal(t, DirLTR, e.Dir)
		}
	}
	assert.Equal(t, 1, infos, "only the first declaration is recorded")
}

func TestBuffer_ContentInfoAfterTextPanics(t *testing.T) {
	b := NewBuffer()
	require.NoError(t, b.WriteString("early"))

	assert.Panics(t, func() {
		_ = b.SetContentInfo(KindHTML, DirLTR)
	})
}

func TestBuffer_MaterializeDropsLogEvents(t *testing.T) {
	b := NewBuffer()
	require.NoError(t, b.WriteString("a"))
	require.NoError(t, b.EnterLog(LogStatement{ID: 3, Name: "x"}))
	require.NoError(t, b.WriteString("b"))
	require.NoError(t, b.ExitLog())

	v := b.Materialize()
	require.IsType(t, StringData(""), v)
	assert.Equal(t, "ab", v.String())
}

func TestBuffer_MaterializeKeepsDeclaredKind(t *testing.T) {
	b := NewBuffer()
	require.NoError(t, b.SetContentInfo(KindHTML, DirRTL))
	require.NoError(t, b.WriteString("<p>x</p>"))

	v := b.Materialize()
	sc, ok := v.(SanitizedContent)
	require.True(t, ok)
	assert.Equal(t, KindHTML, sc.Kind)
	assert.Equal(t, DirRTL, sc.Dir)
	assert.Equal(t, "<p>x</p>", sc.Content)
}

func TestBuffer_MaterializeEstimatesDirWhenNeutral(t *testing.T) {
	b := NewBuffer()
	require.NoError(t, b.SetContentInfo(KindText, DirNeutral))
	require.NoError(t, b.WriteString("hello"))

	sc, ok := b.Materialize().(SanitizedContent)
	require.True(t, ok)
	assert.Equal(t, DirLTR, sc.Dir)
}

func TestBuffer_NeverReportsSoftLimit(t *testing.T) {
	b := NewBuffer()
	require.NoError(t, b.WriteString("anything"))
	assert.False(t, b.SoftLimitReached())
	assert.NoError(t, b.Flush(3))
}

func TestEstimateDir(t *testing.T) {
	assert.Equal(t, DirLTR, EstimateDir("hello"))
	assert.Equal(t, DirRTL, EstimateDir("שלום"))
	assert.Equal(t, DirNeutral, EstimateDir(""))
	assert.Equal(t, DirNeutral, EstimateDir("hello שלום"), "mixed-direction text has no dominant direction")
}
