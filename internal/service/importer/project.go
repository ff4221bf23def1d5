package importer

import (
	"github.com/seu-repo/quest-board/internal/domain"
)

func CardsByStatus(d *domain.ProjectData, status domain.ImportStatus) []domain.ProjectCard {
	out := []domain.ProjectCard{}
	for _, c := range d.Cards {
		if c.StatusInicial == status {
			out = append(out, c)
		}
	}
	return out
}

func CardByID(d *domain.ProjectData, id string) *domain.ProjectCard {
	for i := range d.Cards {
		if d.Cards[i].ID == id {
			return &d.Cards[i]
		}
	}
	return nil
}

// NextCards resolves the proximos references of a card, skipping ids that
// no longer exist.
func NextCards(d *domain.ProjectData, id string) []domain.ProjectCard {
	out := []domain.ProjectCard{}
	c := CardByID(d, id)
	if c == nil {
		return out
	}
	for _, next := range c.Proximos {
		if n := CardByID(d, next); n != nil {
			out = append(out, *n)
		}
	}
	return out
}

// RemoveCard deletes a card and every proximos reference to it.
func RemoveCard(d *domain.ProjectData, id string) {
	kept := make([]domain.ProjectCard, 0, len(d.Cards))
	for _, c := range d.Cards {
		if c.ID == id {
			continue
		}
		refs := make([]string, 0, len(c.Proximos))
		for _, p := range c.Proximos {
			if p != id {
				refs = append(refs, p)
			}
		}
		c.Proximos = refs
		kept = append(kept, c)
	}
	d.Cards = kept
}

func ToPlanTasks(d *domain.ProjectData, defaultPoints int) []domain.PlanTask {
	tasks := make([]domain.PlanTask, len(d.Cards))
	for i := range d.Cards {
		tasks[i] = d.Cards[i].ToPlanTask(defaultPoints)
	}
	return tasks
}
