package metricdef

import (
	"strings"

	"github.com/gocrane/insight-report/pkg/known"
)

// Category groups metrics that share a rendering policy.
type Category string

const (
	CategoryNone    Category = ""
	CategoryCPU     Category = "cpu"
	CategoryMemory  Category = "memory"
	CategoryDisk    Category = "disk"
	CategoryNetwork Category = "network"
)

// Display names that carried the cpu/memory axis policy before categories were declared.
var legacyCategoryNames = map[string]Category{
	"CPU 사용률": CategoryCPU,
	"메모리 사용률":  CategoryMemory,
}

// Definition describes how a metric key is labelled, scaled and judged.
type Definition struct {
	Key               string   `yaml:"key" validate:"required"`
	Name              string   `yaml:"name"`
	Unit              string   `yaml:"unit"`
	Description       string   `yaml:"description"`
	Category          Category `yaml:"category" validate:"omitempty,oneof=cpu memory disk network"`
	ThresholdWarning  *float64 `yaml:"threshold_warning"`
	ThresholdCritical *float64 `yaml:"threshold_critical"`
}

// DisplayName returns Name, or the key when no name is configured.
func (d Definition) DisplayName() string {
	if strings.TrimSpace(d.Name) != "" {
		return d.Name
	}
	return d.Key
}

// IsPercent reports whether the metric is expressed in percent.
func (d Definition) IsPercent() bool {
	return d.Unit == known.PercentUnit
}

// EffectiveCategory returns the declared category, falling back to the legacy
// display-name mapping for definitions that do not declare one.
func (d Definition) EffectiveCategory() Category {
	if d.Category != CategoryNone {
		return d.Category
	}
	return legacyCategoryNames[d.Name]
}

// UsageBounded reports whether the metric is a cpu or memory utilisation whose
// axis is scaled to the data rather than fixed to 0-100.
func (d Definition) UsageBounded() bool {
	c := d.EffectiveCategory()
	return d.IsPercent() && (c == CategoryCPU || c == CategoryMemory)
}

// Registry is an immutable key -> Definition lookup built once from configuration.
type Registry struct {
	keys []string
	defs map[string]Definition
}

func NewRegistry(defs []Definition) *Registry {
	r := &Registry{defs: make(map[string]Definition, len(defs))}
	for _, d := range defs {
		if d.Key == "" {
			continue
		}
		if _, exists := r.defs[d.Key]; !exists {
			r.keys = append(r.keys, d.Key)
		}
		r.defs[d.Key] = d
	}
	return r
}

// Lookup returns the definition for key.
func (r *Registry) Lookup(key string) (Definition, bool) {
	if r == nil {
		return Definition{}, false
	}
	d, ok := r.defs[key]
	return d, ok
}

// Resolve returns the definition for key, or a bare definition carrying only
// the key when the metric is not configured.
func (r *Registry) Resolve(key string) Definition {
	if d, ok := r.Lookup(key); ok {
		return d
	}
	return Definition{Key: key}
}

// DisplayName returns the configured name of key, or key itself.
func (r *Registry) DisplayName(key string) string {
	return r.Resolve(key).DisplayName()
}

// Keys returns the configured metric keys in configuration order.
func (r *Registry) Keys() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}
