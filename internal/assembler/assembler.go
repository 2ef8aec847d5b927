// Package assembler builds the generated-type description of one permutation.
package assembler

import (
	"github.com/aretw0/statewrap/internal/resolver"
	"github.com/aretw0/statewrap/pkg/domain"
)

// Assembler turns permutations of one entity into wrapper descriptions.
// Safe for concurrent use.
type Assembler struct {
	entity   *domain.Entity
	resolver *resolver.Resolver
	suffix   string
}

// New creates an assembler. An empty suffix means domain.DefaultNameSuffix.
func New(entity *domain.Entity, r *resolver.Resolver, suffix string) *Assembler {
	if suffix == "" {
		suffix = domain.DefaultNameSuffix
	}
	return &Assembler{
		entity:   entity,
		resolver: r,
		suffix:   suffix,
	}
}

// Name returns the canonical wrapper name of p.
func (a *Assembler) Name(p domain.Permutation) string {
	return p.Name(a.suffix)
}

// Assemble resolves every capability of the entity against p and keeps the available ones,
// in declaration order. Transition members carry the successor's canonical name; their
// index into the compilation unit is left to CompilationUnit.Link.
func (a *Assembler) Assemble(p domain.Permutation) (domain.WrapperDescription, error) {
	entityRef := a.entity.TypeRef()
	name := a.Name(p)

	w := domain.WrapperDescription{
		Name:        name,
		Permutation: p.Clone(),
		TypeParams:  a.entity.TypeParams,
		Entity:      entityRef,
		Field: domain.Field{
			Name: domain.WrappedFieldName,
			Type: entityRef,
		},
		Constructor: domain.Constructor{
			Name: "New" + name,
			Param: domain.Parameter{
				Name: domain.ConstructorParamName,
				Type: entityRef.String(),
			},
		},
		Members: make([]domain.Member, 0, len(a.entity.Capabilities)),
	}

	for i := range a.entity.Capabilities {
		c := &a.entity.Capabilities[i]
		resolved, err := a.resolver.Resolve(c, p)
		if err != nil {
			return domain.WrapperDescription{}, err
		}
		if !resolved.Available {
			continue
		}

		m := domain.Member{
			Name:           c.Name,
			Doc:            c.Doc,
			Params:         c.Params,
			Result:         resolved.Result,
			SuccessorIndex: domain.NoSuccessor,
		}
		if m.IsTransition() {
			m.SuccessorName = a.Name(resolved.Result.Successor)
		}
		w.Members = append(w.Members, m)
	}
	return w, nil
}
