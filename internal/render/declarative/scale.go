package declarative

// Category10 is d3's schemeCategory10.
var Category10 = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// OrdinalScale maps distinct keys to a fixed range in first-seen order,
// cycling when there are more keys than colors.
type OrdinalScale struct {
	index map[string]int
	rng   []string
}

// NewOrdinalScale builds a scale whose domain is keys (duplicates collapse).
func NewOrdinalScale(keys []string, rng []string) *OrdinalScale {
	s := &OrdinalScale{index: make(map[string]int, len(keys)), rng: rng}
	for _, k := range keys {
		s.lookup(k)
	}
	return s
}

func (s *OrdinalScale) lookup(key string) int {
	i, ok := s.index[key]
	if !ok {
		i = len(s.index)
		s.index[key] = i
	}
	return i
}

// Color returns the range value for key. Unknown keys extend the domain.
func (s *OrdinalScale) Color(key string) string {
	return s.rng[s.lookup(key)%len(s.rng)]
}

// Domain returns the number of distinct keys seen.
func (s *OrdinalScale) Domain() int { return len(s.index) }
