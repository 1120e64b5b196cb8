// Package rename computes the minimal set of file renames a component
// mutation requires and sequences them so no transient name collision can
// occur.
package rename

import (
	"github.com/arnvold/parts-catalog-service/internal/model"
	"github.com/arnvold/parts-catalog-service/internal/naming"
	"github.com/arnvold/parts-catalog-service/internal/picture"
)

// Inputs are the component-level naming inputs. Per-picture color and
// position come from the ledger itself.
type Inputs struct {
	SupplierCode  string
	ProductNumber string
}

// Op is one pending rename: full object names, extension included. Ops are
// transient; they exist only for a single orchestrator run.
type Op struct {
	PictureID string
	OldName   string
	NewName   string
	NewBase   string // base name to persist on the picture row
}

// Plan walks the full ledger and emits an op for every picture whose name
// under newIn differs from its name under oldIn. Identical inputs produce an
// empty plan. The returned order carries no execution guarantee; Sequence
// owns collision safety.
func Plan(led *picture.Ledger, oldIn, newIn Inputs) []Op {
	if oldIn == newIn {
		return nil
	}

	var ops []Op
	for _, g := range led.Groups {
		for _, p := range g.Pictures {
			oldBase := naming.FileBase(oldIn.SupplierCode, oldIn.ProductNumber, g.Color, p.Position)
			newBase := naming.FileBase(newIn.SupplierCode, newIn.ProductNumber, g.Color, p.Position)
			if oldBase == newBase {
				continue
			}
			ops = append(ops, Op{
				PictureID: p.ID,
				OldName:   oldBase + p.Extension,
				NewName:   newBase + p.Extension,
				NewBase:   newBase,
			})
		}
	}
	return ops
}

// PlanReorder emits ops for a single scope whose positions are changing.
// newPositions maps picture ID to its requested position; pictures absent
// from the map keep their current one.
func PlanReorder(g *picture.Group, in Inputs, newPositions map[string]int) []Op {
	var ops []Op
	for _, p := range g.Pictures {
		pos, moved := newPositions[p.ID]
		if !moved || pos == p.Position {
			continue
		}
		oldBase := naming.FileBase(in.SupplierCode, in.ProductNumber, g.Color, p.Position)
		newBase := naming.FileBase(in.SupplierCode, in.ProductNumber, g.Color, pos)
		ops = append(ops, Op{
			PictureID: p.ID,
			OldName:   oldBase + p.Extension,
			NewName:   newBase + p.Extension,
			NewBase:   newBase,
		})
	}
	return ops
}

// PlanRecolor emits ops for variant scopes whose color is changing. colors
// maps variant ID to the new color; scopes absent from the map keep theirs.
func PlanRecolor(led *picture.Ledger, in Inputs, colors map[string]string) []Op {
	var ops []Op
	for _, g := range led.Groups {
		if g.VariantID == nil {
			continue
		}
		newColor, changed := colors[*g.VariantID]
		if !changed {
			continue
		}
		for _, p := range g.Pictures {
			oldBase := naming.FileBase(in.SupplierCode, in.ProductNumber, g.Color, p.Position)
			newBase := naming.FileBase(in.SupplierCode, in.ProductNumber, newColor, p.Position)
			if oldBase == newBase {
				continue
			}
			ops = append(ops, Op{
				PictureID: p.ID,
				OldName:   oldBase + p.Extension,
				NewName:   newBase + p.Extension,
				NewBase:   newBase,
			})
		}
	}
	return ops
}

// Move is one file-store rename in a sequenced plan.
type Move struct {
	PictureID string
	From      string
	To        string
}

// Sequence is a two-phase execution order: every source first moves to its
// staging name, then every staging name moves to its real target. Because
// staging names can never equal any real name, A→B can no longer collide
// with B→C within one pass, whatever the overlap structure of the plan.
type Sequence struct {
	Stage  []Move
	Commit []Move
}

// StageName derives the intermediate name for an op deterministically from
// the picture identity, so a crash mid-sequence leaves an inspectable,
// recoverable state instead of silent loss.
func StageName(pictureID string) string {
	return "staging-" + pictureID
}

// Sequenced builds the two-phase order for a plan.
func Sequenced(ops []Op) Sequence {
	seq := Sequence{
		Stage:  make([]Move, 0, len(ops)),
		Commit: make([]Move, 0, len(ops)),
	}
	for _, op := range ops {
		stage := StageName(op.PictureID)
		seq.Stage = append(seq.Stage, Move{PictureID: op.PictureID, From: op.OldName, To: stage})
		seq.Commit = append(seq.Commit, Move{PictureID: op.PictureID, From: stage, To: op.NewName})
	}
	return seq
}

// InputsOf extracts the naming inputs of a component given its resolved
// supplier (nil when the component has none).
func InputsOf(c *model.Component, s *model.Supplier) Inputs {
	in := Inputs{ProductNumber: c.ProductNumber}
	if s != nil {
		in.SupplierCode = s.Code
	}
	return in
}
