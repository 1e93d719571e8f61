package metricdef

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gocrane/insight-report/pkg/utils"
)

func TestRegistryLookupAndFallback(t *testing.T) {
	r := NewRegistry([]Definition{
		{Key: "avg_cpu_used_rto", Name: "CPU 사용률", Unit: "%", ThresholdWarning: utils.Float64Ptr(70)},
		{Key: "mem_usert", Name: "메모리 사용률", Unit: "%"},
		{Key: "disk_used_rto", Unit: "%"},
	})

	d, ok := r.Lookup("avg_cpu_used_rto")
	assert.True(t, ok)
	assert.Equal(t, 70.0, *d.ThresholdWarning)

	_, ok = r.Lookup("unknown")
	assert.False(t, ok)
	assert.Equal(t, "unknown", r.DisplayName("unknown"))
	assert.Equal(t, "disk_used_rto", r.DisplayName("disk_used_rto"))
	assert.Equal(t, []string{"avg_cpu_used_rto", "mem_usert", "disk_used_rto"}, r.Keys())
}

func TestUsageBounded(t *testing.T) {
	cases := []struct {
		name string
		def  Definition
		want bool
	}{
		{"legacy cpu name", Definition{Name: "CPU 사용률", Unit: "%"}, true},
		{"legacy memory name", Definition{Name: "메모리 사용률", Unit: "%"}, true},
		{"declared category", Definition{Name: "CPU Usage", Unit: "%", Category: CategoryCPU}, true},
		{"declared category wins over name", Definition{Name: "CPU 사용률", Unit: "%", Category: CategoryDisk}, false},
		{"other percent", Definition{Name: "디스크 사용률", Unit: "%"}, false},
		{"cpu without percent", Definition{Name: "CPU 사용률", Unit: "core"}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, c.def.UsageBounded())
		})
	}
}

func TestNilRegistry(t *testing.T) {
	var r *Registry
	assert.Equal(t, "k", r.DisplayName("k"))
	assert.Equal(t, 0, r.Len())
}
