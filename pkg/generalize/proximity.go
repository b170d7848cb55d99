package generalize

import (
	"fmt"
	"math"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ProximityRelation states that the symbols F and G are approximately
// equal with degree Proximity. ArgRelation[i] lists the argument positions
// of G (0-based) that argument i of F corresponds to; its length is the
// arity of F.
type ProximityRelation struct {
	F, G        string
	Proximity   float64
	ArgRelation [][]int
}

// Inverse returns the relation from G to F with the transposed argument
// relation. gArity is the arity of G.
func (r ProximityRelation) Inverse(gArity int) ProximityRelation {
	inv := make([][]int, gArity)
	for i, js := range r.ArgRelation {
		for _, j := range js {
			if j < gArity && !containsInt(inv[j], i) {
				inv[j] = append(inv[j], i)
			}
		}
	}
	return ProximityRelation{F: r.G, G: r.F, Proximity: r.Proximity, ArgRelation: inv}
}

// String renders the relation in surface syntax with 1-based positions,
// e.g. "f g {(1,1), (2,1)} [0.5]".
func (r ProximityRelation) String() string {
	var pairs []string
	for i, js := range r.ArgRelation {
		for _, j := range js {
			pairs = append(pairs, fmt.Sprintf("(%d,%d)", i+1, j+1))
		}
	}
	return fmt.Sprintf("%s %s {%s} [%s]", r.F, r.G, strings.Join(pairs, ", "), formatDegree(r.Proximity))
}

func identityRelation(h string, arity int) ProximityRelation {
	args := make([][]int, arity)
	for i := range args {
		args[i] = []int{i}
	}
	return ProximityRelation{F: h, G: h, Proximity: 1, ArgRelation: args}
}

// RestrictionType classifies a proximity map. Correspondence holds when
// every argument position is related to at least one position on the
// other side, Mapping when it is related to at most one.
type RestrictionType struct {
	Correspondence bool
	Mapping        bool
}

func (rt RestrictionType) String() string {
	switch {
	case rt.Correspondence && rt.Mapping:
		return "Correspondence Mapping"
	case rt.Correspondence:
		return "Correspondence Relation"
	case rt.Mapping:
		return "Mapping"
	default:
		return "Unrestricted Relation"
	}
}

type symbolPair struct{ f, g string }

// ProximityMap holds the retained proximity relations of one problem,
// stored in both directions, together with the arity of every symbol.
// It is read-only after construction except for its memo cache, which
// makes it safe for a single solver only.
type ProximityMap struct {
	lambda     float64
	arities    map[string]int
	relations  map[symbolPair]ProximityRelation
	classes    map[string][]string
	identities map[string]ProximityRelation
	retained   []ProximityRelation

	restriction RestrictionType
	theoretical RestrictionType

	memo    *lru.Cache[string, []string]
	monitor *Monitor
}

// NewProximityMap validates relations against the symbols of lhs and rhs
// and keeps those with proximity at least lambda. Relations may be given
// in either direction and more than once; a later duplicate replaces an
// earlier one.
func NewProximityMap(lhs, rhs Term, relations []ProximityRelation, lambda float64, opts *Options) (*ProximityMap, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	opts = opts.withDefaults()
	log := opts.Logger

	if math.IsNaN(lambda) || lambda < 0 || lambda > 1 {
		return nil, errors.Wrapf(ErrInvalidArgument, "lambda %v must be in range [0,1]", lambda)
	}
	memo, err := lru.New[string, []string](opts.CacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "creating common proximates cache")
	}

	m := &ProximityMap{
		lambda:      lambda,
		arities:     make(map[string]int),
		relations:   make(map[symbolPair]ProximityRelation),
		classes:     make(map[string][]string),
		identities:  make(map[string]ProximityRelation),
		restriction: RestrictionType{Correspondence: true, Mapping: true},
		theoretical: RestrictionType{Correspondence: true, Mapping: true},
		memo:        memo,
		monitor:     opts.Monitor,
	}

	for _, t := range []Term{lhs, rhs} {
		if err := m.addTermArities(t); err != nil {
			return nil, err
		}
	}
	if err := m.resolveRelationArities(relations); err != nil {
		return nil, err
	}

	retainedIdx := make(map[symbolPair]int)
	for _, r := range relations {
		if r.F == r.G {
			log.WithField("relation", r.String()).Warn("ignoring relation of a symbol with itself")
			continue
		}
		corr, mapping := m.classify(r)
		m.theoretical.Correspondence = m.theoretical.Correspondence && corr
		m.theoretical.Mapping = m.theoretical.Mapping && mapping

		if r.Proximity < lambda {
			log.WithField("relation", r.String()).Debugf("discarding relation with proximity %s < λ %s", formatDegree(r.Proximity), formatDegree(lambda))
			continue
		}
		r = normalizeRelation(r)
		inv := r.Inverse(m.arities[r.G])
		m.relations[symbolPair{r.F, r.G}] = r
		m.relations[symbolPair{r.G, r.F}] = inv
		m.addToClass(r.F, r.G)
		m.addToClass(r.G, r.F)

		if i, ok := retainedIdx[symbolPair{r.F, r.G}]; ok {
			log.WithField("relation", r.String()).Debug("replacing duplicate relation")
			m.retained[i] = r
		} else if i, ok := retainedIdx[symbolPair{r.G, r.F}]; ok {
			log.WithField("relation", r.String()).Debug("replacing duplicate inverse relation")
			m.retained[i] = inv
		} else {
			retainedIdx[symbolPair{r.F, r.G}] = len(m.retained)
			m.retained = append(m.retained, r)
		}
	}

	// Classify what is left after replacements.
	for _, r := range m.retained {
		corr, mapping := m.classify(r)
		m.restriction.Correspondence = m.restriction.Correspondence && corr
		m.restriction.Mapping = m.restriction.Mapping && mapping
	}
	return m, nil
}

func (m *ProximityMap) addTermArities(t Term) error {
	if t == nil {
		return errors.Wrap(ErrInvalidArgument, "missing input term")
	}
	if !t.IsGround() {
		return errors.Wrapf(ErrInvalidArgument, "input term %s is not ground", t)
	}
	return walkSymbols(t, func(head string, arity int) error {
		if head == anonName {
			return errors.Wrapf(ErrInvalidArgument, "symbol %q is reserved", anonName)
		}
		return m.setArity(head, arity)
	})
}

func (m *ProximityMap) setArity(head string, arity int) error {
	if a, ok := m.arities[head]; ok && a != arity {
		return errors.Wrapf(ErrInvalidArgument, "symbol %s used with arities %d and %d", head, a, arity)
	}
	m.arities[head] = arity
	return nil
}

// resolveRelationArities fixes the arity of every symbol a relation
// mentions and checks every argument position against it. The arity of F
// is the length of ArgRelation; a G that occurs nowhere else gets the
// largest referenced position plus one.
func (m *ProximityMap) resolveRelationArities(relations []ProximityRelation) error {
	for _, r := range relations {
		if r.F == "" || r.G == "" {
			return errors.Wrapf(ErrInvalidArgument, "relation %s has an empty symbol", r)
		}
		if r.F == anonName || r.G == anonName {
			return errors.Wrapf(ErrInvalidArgument, "symbol %q is reserved", anonName)
		}
		if math.IsNaN(r.Proximity) || r.Proximity < 0 || r.Proximity > 1 {
			return errors.Wrapf(ErrInvalidArgument, "proximity %v of relation %s %s must be in range [0,1]", r.Proximity, r.F, r.G)
		}
		for _, js := range r.ArgRelation {
			for _, j := range js {
				if j < 0 {
					return errors.Wrapf(ErrInvalidArgument, "relation %s %s references negative argument position %d", r.F, r.G, j)
				}
			}
		}
		if a, ok := m.arities[r.F]; ok && a != len(r.ArgRelation) {
			return errors.Wrapf(ErrInvalidArgument, "relation %s %s maps %d arguments of %s, which has arity %d", r.F, r.G, len(r.ArgRelation), r.F, a)
		}
		m.arities[r.F] = len(r.ArgRelation)
	}

	inferred := make(map[string]int)
	for _, r := range relations {
		if _, ok := m.arities[r.G]; ok {
			continue
		}
		n := maxPosition(r.ArgRelation) + 1
		if cur, ok := inferred[r.G]; !ok || n > cur {
			inferred[r.G] = n
		}
	}
	for g, n := range inferred {
		m.arities[g] = n
	}

	for _, r := range relations {
		if n := maxPosition(r.ArgRelation) + 1; n > m.arities[r.G] {
			return errors.Wrapf(ErrInvalidArgument, "relation %s %s references argument %d of %s, which has arity %d", r.F, r.G, n, r.G, m.arities[r.G])
		}
	}
	return nil
}

func maxPosition(args [][]int) int {
	max := -1
	for _, js := range args {
		for _, j := range js {
			if j > max {
				max = j
			}
		}
	}
	return max
}

// normalizeRelation drops duplicate positions and copies the argument
// relation so callers cannot alias it.
func normalizeRelation(r ProximityRelation) ProximityRelation {
	args := make([][]int, len(r.ArgRelation))
	for i, js := range r.ArgRelation {
		for _, j := range js {
			if !containsInt(args[i], j) {
				args[i] = append(args[i], j)
			}
		}
	}
	r.ArgRelation = args
	return r
}

// classify checks correspondence and mapping of r in both directions.
func (m *ProximityMap) classify(r ProximityRelation) (correspondence, mapping bool) {
	correspondence, mapping = true, true
	r = normalizeRelation(r)
	for _, rel := range []ProximityRelation{r, r.Inverse(m.arities[r.G])} {
		for _, js := range rel.ArgRelation {
			if len(js) == 0 {
				correspondence = false
			}
			if len(js) > 1 {
				mapping = false
			}
		}
	}
	return correspondence, mapping
}

func (m *ProximityMap) addToClass(f, g string) {
	class, ok := m.classes[f]
	if !ok {
		class = []string{f}
	}
	if !containsString(class, g) {
		class = append(class, g)
	}
	m.classes[f] = class
}

// Lambda returns the cut the map was built with.
func (m *ProximityMap) Lambda() float64 { return m.lambda }

// RestrictionType classifies the relations retained after the λ-cut. It
// determines the engine's behaviour.
func (m *ProximityMap) RestrictionType() RestrictionType { return m.restriction }

// TheoreticalRestrictionType classifies all given relations, including
// those below the λ-cut. It is only reported.
func (m *ProximityMap) TheoreticalRestrictionType() RestrictionType { return m.theoretical }

// Arity returns the arity of h, or -1 if h is unknown.
func (m *ProximityMap) Arity(h string) int {
	if a, ok := m.arities[h]; ok {
		return a
	}
	return -1
}

// IsMappedVariable reports whether h is a known nullary symbol.
func (m *ProximityMap) IsMappedVariable(h string) bool {
	a, ok := m.arities[h]
	return ok && a == 0
}

// Relation returns the retained relation from f to g. For f == g it
// returns the identity relation with degree 1.
func (m *ProximityMap) Relation(f, g string) (ProximityRelation, bool) {
	if f == g {
		if r, ok := m.identities[f]; ok {
			return r, true
		}
		a, ok := m.arities[f]
		if !ok {
			return ProximityRelation{}, false
		}
		r := identityRelation(f, a)
		m.identities[f] = r
		return r, true
	}
	r, ok := m.relations[symbolPair{f, g}]
	return r, ok
}

// Relations returns the retained relations, one direction each, in input
// order.
func (m *ProximityMap) Relations() []ProximityRelation {
	out := make([]ProximityRelation, len(m.retained))
	copy(out, m.retained)
	return out
}

// ProximityClass returns h followed by every symbol h is related to.
func (m *ProximityMap) ProximityClass(h string) []string {
	if class, ok := m.classes[h]; ok {
		return class
	}
	return []string{h}
}

func (m *ProximityMap) related(f, g string) bool {
	if f == g {
		return true
	}
	_, ok := m.relations[symbolPair{f, g}]
	return ok
}

// CommonProximates returns the symbols related to the head of every term
// in terms. Results are memoised by the ordered set of heads. The
// returned slice must not be modified.
func (m *ProximityMap) CommonProximates(terms *TermSet) []string {
	if terms.IsEmpty() {
		return nil
	}
	heads := make([]string, 0, terms.Len())
	for i := 0; i < terms.Len(); i++ {
		if h := terms.At(i).Head(); !containsString(heads, h) {
			heads = append(heads, h)
		}
	}
	key := strings.Join(heads, "\x00")
	if common, ok := m.memo.Get(key); ok {
		m.monitor.record(func(s *Stats) { s.CacheHits++ })
		return common
	}
	m.monitor.record(func(s *Stats) { s.CacheMisses++ })

	var common []string
	for _, candidate := range m.ProximityClass(heads[0]) {
		ok := true
		for _, h := range heads[1:] {
			if !m.related(h, candidate) {
				ok = false
				break
			}
		}
		if ok {
			common = append(common, candidate)
		}
	}
	m.memo.Add(key, common)
	return common
}

// CompactView lists the retained relations by degree only.
func (m *ProximityMap) CompactView() string {
	parts := make([]string, len(m.retained))
	for i, r := range m.retained {
		parts[i] = fmt.Sprintf("%s ~ %s [%s]", r.F, r.G, formatDegree(r.Proximity))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// FullView lists every symbol's arity and every retained relation with
// its argument relation, one per line.
func (m *ProximityMap) FullView() string {
	symbols := make([]string, 0, len(m.arities))
	for s := range m.arities {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	var sb strings.Builder
	sb.WriteString("arities:")
	for _, s := range symbols {
		fmt.Fprintf(&sb, " %s/%d", s, m.arities[s])
	}
	for _, r := range m.retained {
		sb.WriteString("\n  ")
		sb.WriteString(r.String())
	}
	return sb.String()
}

func (m *ProximityMap) logSummary(log logrus.FieldLogger) {
	if debugEnabled(log) {
		log.Debugf("R: %s", m.FullView())
	} else {
		log.Infof("R: %s", m.CompactView())
	}
	if m.restriction == m.theoretical {
		log.Infof("the problem is of type %s", m.restriction)
	} else {
		log.Infof("the problem is theoretically of type %s, but excluding relations below the λ-cut it is of type %s", m.theoretical, m.restriction)
	}
	if m.restriction.Correspondence {
		log.Info("therefore the result is the minimal complete set of generalizations")
	} else {
		log.Info("therefore the result is not guaranteed to be the minimal complete set of generalizations")
	}
}

func debugEnabled(log logrus.FieldLogger) bool {
	switch l := log.(type) {
	case *logrus.Logger:
		return l.IsLevelEnabled(logrus.DebugLevel)
	case *logrus.Entry:
		return l.Logger.IsLevelEnabled(logrus.DebugLevel)
	}
	return false
}

func formatDegree(f float64) string {
	return fmt.Sprintf("%g", f)
}

func containsString(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}

func containsInt(xs []int, n int) bool {
	for _, x := range xs {
		if x == n {
			return true
		}
	}
	return false
}
