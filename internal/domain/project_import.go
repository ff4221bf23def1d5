package domain

import (
	"strings"
)

type ImportStatus string

const (
	ImportBacklog    ImportStatus = "Backlog"
	ImportInProgress ImportStatus = "Em andamento"
	ImportDone       ImportStatus = "Concluído"
)

func (s ImportStatus) IsValid() bool {
	switch s {
	case ImportBacklog, ImportInProgress, ImportDone:
		return true
	}
	return false
}

type ImportPriority string

const (
	ImportLow    ImportPriority = "Baixa"
	ImportMedium ImportPriority = "Média"
	ImportHigh   ImportPriority = "Alta"
)

func (p ImportPriority) IsValid() bool {
	switch p {
	case ImportLow, ImportMedium, ImportHigh:
		return true
	}
	return false
}

// ProjectCard is the card schema of an imported project file. It is kept
// apart from Card; ToPlanTask is the only bridge between the two.
type ProjectCard struct {
	ID            string         `json:"id"`
	Titulo        string         `json:"titulo"`
	Descricao     string         `json:"descricao"`
	StatusInicial ImportStatus   `json:"status_inicial"`
	Prioridade    ImportPriority `json:"prioridade"`
	XP            *int           `json:"xp,omitempty"`
	Categoria     string         `json:"categoria"`
	Proximos      []string       `json:"proximos"`
}

// ProjectData is the top-level import document.
type ProjectData struct {
	Instrucoes string        `json:"__instrucoes"`
	Cards      []ProjectCard `json:"cards"`
}

func (c *ProjectCard) Validate() error {
	if c.ID == "" {
		return &ValidationError{Field: "id", Message: "is required"}
	}
	if strings.TrimSpace(c.Titulo) == "" {
		return &ValidationError{Field: "titulo", Message: "is required"}
	}
	if !c.StatusInicial.IsValid() {
		return &ValidationError{Field: "status_inicial", Message: "unknown status " + string(c.StatusInicial)}
	}
	if !c.Prioridade.IsValid() {
		return &ValidationError{Field: "prioridade", Message: "unknown priority " + string(c.Prioridade)}
	}
	if c.XP != nil && *c.XP < 0 {
		return &ValidationError{Field: "xp", Message: "must not be negative"}
	}
	return nil
}

// ToPlanTask converts an imported card into a plan task.
func (c *ProjectCard) ToPlanTask(defaultPoints int) PlanTask {
	points := defaultPoints
	if c.XP != nil && *c.XP > 0 {
		points = *c.XP
	}
	progress := 0
	if c.StatusInicial == ImportDone {
		progress = 100
	}
	return PlanTask{
		Title:       c.Titulo,
		Description: c.Descricao,
		Priority:    c.Prioridade.toCardPriority(),
		Points:      points,
		ServiceType: serviceTypeForCategory(c.Categoria),
		Progress:    progress,
	}
}

func (p ImportPriority) toCardPriority() CardPriority {
	switch p {
	case ImportLow:
		return PriorityLow
	case ImportHigh:
		return PriorityHigh
	default:
		return PriorityMedium
	}
}

func serviceTypeForCategory(categoria string) ServiceType {
	c := strings.ToLower(categoria)
	switch {
	case strings.Contains(c, "físic"), strings.Contains(c, "fisic"), strings.Contains(c, "physical"):
		return ServicePhysical
	case strings.Contains(c, "digital"):
		return ServiceDigital
	default:
		return ServiceBoth
	}
}
