package reshuffle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javiermolinar/dayflow/internal/schedule"
)

// With the clock at 18:00 only two hours remain before the evening.
func lateContext(items ...*schedule.Item) *Context {
	return NewContext(items, at(0, 0), at(18, 0), schedule.DefaultBounds())
}

func TestDetectOverflow_Waterfall(t *testing.T) {
	tests := []struct {
		name      string
		items     []*schedule.Item
		want      Strategy
		overflow  int
		compress  int
		deferIDs  []string
		spillover int
	}{
		{
			name:  "fits",
			items: []*schedule.Item{flexible("task", at(18, 0), 60)},
			want:  StrategyNoAction,
		},
		{
			name: "optional goals cover the deficit",
			items: []*schedule.Item{
				optional("read", at(10, 0), 60),
				optional("sketch", at(11, 0), 60),
				flexible("task", at(12, 0), 60),
				habit("run", at(13, 0), 60, 30),
			},
			want:     StrategyDeferOptionals,
			overflow: 120,
			deferIDs: []string{"sketch", "read"},
		},
		{
			name: "compression covers what optional goals cannot",
			items: []*schedule.Item{
				optional("read", at(10, 0), 60),
				flexible("task", at(12, 0), 80),
				habit("run", at(13, 0), 60, 30),
			},
			want:     StrategyCompressHabits,
			overflow: 80,
			compress: 20,
		},
		{
			name: "flexible tasks absorb the rest, latest first",
			items: []*schedule.Item{
				optional("read", at(10, 0), 60),
				habit("run", at(13, 0), 60, 30),
				flexible("early", at(9, 0), 60),
				flexible("afternoon", at(15, 0), 60),
			},
			want:     StrategyDeferFlexible,
			overflow: 120,
			deferIDs: []string{"afternoon"},
		},
		{
			name: "nothing left to absorb",
			items: []*schedule.Item{
				optional("read", at(10, 0), 60),
				habit("run", at(13, 0), 60, 30),
				flexible("task", at(15, 0), 60),
				fixed("offsite", at(10, 0), 300),
			},
			want:      StrategyFullDayDisruption,
			overflow:  360,
			deferIDs:  []string{"task"},
			spillover: 210,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectOverflow(lateContext(tt.items...))
			require.Equal(t, tt.want, got.Strategy)
			assert.Equal(t, tt.overflow, got.OverflowMinutes)
			assert.Equal(t, tt.compress, got.CompressMinutes)
			assert.Equal(t, tt.deferIDs, got.DeferIDs)
			assert.Equal(t, len(tt.deferIDs), got.DeferCount)
			assert.Equal(t, tt.spillover, got.EveningSpillMinutes)
			assert.Equal(t, tt.spillover > 0, got.SpillsIntoEvening)
		})
	}
}

func TestOverflowAnalysis_Defers(t *testing.T) {
	a := OverflowAnalysis{DeferIDs: []string{"a", "b"}}
	assert.True(t, a.Defers("b"))
	assert.False(t, a.Defers("c"))
}
