// Package problem loads generalization problems from YAML files and
// solves them.
//
// A problem file holds one problem:
//
//	name: swapped
//	equation: f(a, b) =^= f(b, a)
//	lambda: 0.5
//	tnorm: min
//	relations:
//	  - a b {} 0.7
//	  - {f: f, g: g, proximity: 0.9, args: [[1, 2], [2, 1]]}
//
// A batch file lists several under "problems". The equation may also be
// given as separate lhs and rhs fields.
package problem

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/gitrdm/proxgen/pkg/generalize"
	"github.com/gitrdm/proxgen/pkg/syntax"
)

// Problem is one generalization problem as written in a problem file.
type Problem struct {
	Name        string     `yaml:"name,omitempty"`
	Equation    string     `yaml:"equation,omitempty"`
	LHS         string     `yaml:"lhs,omitempty"`
	RHS         string     `yaml:"rhs,omitempty"`
	Lambda      *float64   `yaml:"lambda,omitempty"`
	TNorm       string     `yaml:"tnorm,omitempty"`
	Merge       *bool      `yaml:"merge,omitempty"`
	Witness     *bool      `yaml:"witness,omitempty"`
	MaxBranches int        `yaml:"max_branches,omitempty"`
	Relations   []Relation `yaml:"relations,omitempty"`
}

// Relation is a proximity relation in a problem file: either a surface
// string such as "f g {(1,1)} 0.8" or a mapping with 1-based argument
// pairs.
type Relation struct {
	Text      string   `yaml:"-"`
	F         string   `yaml:"f"`
	G         string   `yaml:"g"`
	Proximity float64  `yaml:"proximity"`
	Args      [][2]int `yaml:"args,omitempty"`
}

// UnmarshalYAML accepts both the string and the mapping form.
func (r *Relation) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*r = Relation{Text: value.Value}
		return nil
	}
	type plain Relation
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*r = Relation(p)
	return nil
}

// MarshalYAML writes the string form back as a string.
func (r Relation) MarshalYAML() (interface{}, error) {
	if r.Text != "" {
		return r.Text, nil
	}
	type plain Relation
	return plain(r), nil
}

// Batch is the content of a batch file.
type Batch struct {
	Problems []Problem `yaml:"problems"`
}

// Parse decodes a single problem.
func Parse(data []byte) (*Problem, error) {
	var p Problem
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrap(generalize.ErrInvalidArgument, err.Error())
	}
	return &p, nil
}

// ParseBatch decodes a batch. A document without a "problems" list is read
// as a batch of one problem.
func ParseBatch(data []byte) (*Batch, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrap(generalize.ErrInvalidArgument, err.Error())
	}
	if root.Kind == 0 {
		return nil, errors.Wrap(generalize.ErrInvalidArgument, "empty batch file")
	}
	var b Batch
	if err := root.Decode(&b); err != nil {
		return nil, errors.Wrap(generalize.ErrInvalidArgument, err.Error())
	}
	if len(b.Problems) > 0 {
		return &b, nil
	}
	var p Problem
	if err := root.Decode(&p); err != nil {
		return nil, errors.Wrap(generalize.ErrInvalidArgument, err.Error())
	}
	if p.Equation == "" && p.LHS == "" {
		return nil, errors.Wrap(generalize.ErrInvalidArgument, "batch file lists no problems")
	}
	return &Batch{Problems: []Problem{p}}, nil
}

// LoadFile reads a single problem from path.
func LoadFile(path string) (*Problem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading problem file %s", path)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "problem file %s", path)
	}
	return p, nil
}

// LoadBatchFile reads a batch from path.
func LoadBatchFile(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading batch file %s", path)
	}
	b, err := ParseBatch(data)
	if err != nil {
		return nil, errors.Wrapf(err, "batch file %s", path)
	}
	return b, nil
}

// Terms parses the two sides of the problem.
func (p *Problem) Terms() (lhs, rhs generalize.Term, err error) {
	switch {
	case p.Equation != "" && (p.LHS != "" || p.RHS != ""):
		return nil, nil, errors.Wrap(generalize.ErrInvalidArgument, "give either equation or lhs and rhs, not both")
	case p.Equation != "":
		return syntax.ParseEquation(p.Equation)
	case p.LHS == "" || p.RHS == "":
		return nil, nil, errors.Wrap(generalize.ErrInvalidArgument, "missing equation")
	}
	if lhs, err = syntax.ParseTerm(p.LHS); err != nil {
		return nil, nil, errors.Wrap(err, "lhs")
	}
	if rhs, err = syntax.ParseTerm(p.RHS); err != nil {
		return nil, nil, errors.Wrap(err, "rhs")
	}
	return lhs, rhs, nil
}

// ProximityRelations converts the relations using the arities of the
// symbols in lhs and rhs.
func (p *Problem) ProximityRelations(lhs, rhs generalize.Term) ([]generalize.ProximityRelation, error) {
	arities := syntax.Arities(lhs, rhs)
	var out []generalize.ProximityRelation
	for i, r := range p.Relations {
		if r.Text != "" {
			rels, err := syntax.ParseRelations(r.Text, arities)
			if err != nil {
				return nil, errors.Wrapf(err, "relation %d", i+1)
			}
			out = append(out, rels...)
			continue
		}
		rel, err := syntax.RelationFromPairs(r.F, r.G, r.Proximity, r.Args, arities)
		if err != nil {
			return nil, errors.Wrapf(err, "relation %d", i+1)
		}
		out = append(out, rel)
	}
	return out, nil
}

// Options returns base overridden by the settings of the problem. base is
// not modified; nil selects generalize.DefaultOptions.
func (p *Problem) Options(base *generalize.Options) (*generalize.Options, error) {
	opts := generalize.DefaultOptions()
	if base != nil {
		cp := *base
		opts = &cp
	}
	if p.TNorm != "" {
		tn, err := generalize.TNormByName(p.TNorm)
		if err != nil {
			return nil, err
		}
		opts.TNorm = tn
	}
	if p.Merge != nil {
		opts.Merge = *p.Merge
	}
	if p.Witness != nil {
		opts.Witness = *p.Witness
	}
	if p.MaxBranches != 0 {
		opts.MaxBranches = p.MaxBranches
	}
	return opts, nil
}

// Result is a solved problem.
type Result struct {
	Name        string
	LHS, RHS    generalize.Term
	Lambda      float64
	Restriction generalize.RestrictionType
	Theoretical generalize.RestrictionType
	Relations   string
	Solutions   generalize.Solutions
}

// Solve parses and solves the problem. Settings in the problem take
// precedence over base.
func (p *Problem) Solve(base *generalize.Options) (*Result, error) {
	if p.Lambda == nil {
		return nil, errors.Wrap(generalize.ErrInvalidArgument, "missing lambda")
	}
	lhs, rhs, err := p.Terms()
	if err != nil {
		return nil, err
	}
	rels, err := p.ProximityRelations(lhs, rhs)
	if err != nil {
		return nil, err
	}
	opts, err := p.Options(base)
	if err != nil {
		return nil, err
	}
	solver, err := generalize.NewSolver(lhs, rhs, rels, *p.Lambda, opts)
	if err != nil {
		return nil, err
	}
	sols, err := solver.Run()
	if err != nil {
		return nil, err
	}
	sols.Sort()
	prox := solver.ProximityMap()
	return &Result{
		Name:        p.Name,
		LHS:         lhs,
		RHS:         rhs,
		Lambda:      *p.Lambda,
		Restriction: prox.RestrictionType(),
		Theoretical: prox.TheoreticalRestrictionType(),
		Relations:   prox.CompactView(),
		Solutions:   sols,
	}, nil
}
