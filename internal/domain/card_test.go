package domain

import (
	"errors"
	"testing"
)

func ptr[T any](v T) *T { return &v }

func TestCardPatch_ApplyAndUpdates(t *testing.T) {
	// Arrange
	card := Card{ID: "a", Title: "old", Priority: PriorityLow, Points: 5, Status: CardStatusPending}
	patch := CardPatch{ID: "a", Title: ptr("new"), Points: ptr(0), Status: ptr(CardStatusCompleted)}

	// Act
	patch.Apply(&card)
	updates := patch.Updates()

	// Assert
	if card.Title != "new" || card.Points != 0 || card.Status != CardStatusCompleted {
		t.Errorf("Unexpected card after apply: %+v", card)
	}
	if card.Priority != PriorityLow {
		t.Error("Expected unset fields untouched")
	}
	if len(updates) != 3 || updates["points"] != 0 || updates["status"] != CardStatusCompleted {
		t.Errorf("Unexpected updates %v", updates)
	}
	if !patch.Completes() {
		t.Error("Expected patch to complete the card")
	}
}

func TestCardPatch_Validate(t *testing.T) {
	tests := []struct {
		name    string
		patch   CardPatch
		wantErr bool
	}{
		{"valid", CardPatch{ID: "a", Progress: ptr(100)}, false},
		{"missing id", CardPatch{Title: ptr("x")}, true},
		{"empty title", CardPatch{ID: "a", Title: ptr("")}, true},
		{"progress over", CardPatch{ID: "a", Progress: ptr(101)}, true},
		{"negative points", CardPatch{ID: "a", Points: ptr(-1)}, true},
		{"bad priority", CardPatch{ID: "a", Priority: ptr(CardPriority("critical"))}, true},
		{"bad service", CardPatch{ID: "a", ServiceType: ptr(ServiceType("remote"))}, true},
		{"bad status", CardPatch{ID: "a", Status: ptr(CardStatus("done"))}, true},
		{"negative value", CardPatch{ID: "a", EstimatedValue: ptr(-1.5)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.patch.Validate()
			if tt.wantErr {
				var vErr *ValidationError
				if !errors.As(err, &vErr) {
					t.Errorf("Expected ValidationError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
		})
	}
}

func TestCard_RewardPoints(t *testing.T) {
	if got := (&Card{Points: 40}).RewardPoints(10); got != 40 {
		t.Errorf("Expected 40, got %d", got)
	}
	if got := (&Card{}).RewardPoints(10); got != 10 {
		t.Errorf("Expected fallback 10, got %d", got)
	}
}

func TestProjectCard_ToPlanTask(t *testing.T) {
	tests := []struct {
		name string
		card ProjectCard
		want PlanTask
	}{
		{
			name: "high digital with xp",
			card: ProjectCard{Titulo: "Site", Descricao: "Landing", StatusInicial: ImportBacklog, Prioridade: ImportHigh, XP: ptr(40), Categoria: "Digital"},
			want: PlanTask{Title: "Site", Description: "Landing", Priority: PriorityHigh, Points: 40, ServiceType: ServiceDigital},
		},
		{
			name: "default points and physical",
			card: ProjectCard{Titulo: "Obra", StatusInicial: ImportInProgress, Prioridade: ImportMedium, Categoria: "Serviço Físico"},
			want: PlanTask{Title: "Obra", Priority: PriorityMedium, Points: 10, ServiceType: ServicePhysical},
		},
		{
			name: "done is full progress",
			card: ProjectCard{Titulo: "Feito", StatusInicial: ImportDone, Prioridade: ImportLow, XP: ptr(0)},
			want: PlanTask{Title: "Feito", Priority: PriorityLow, Points: 10, ServiceType: ServiceBoth, Progress: 100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.card.ToPlanTask(10); got != tt.want {
				t.Errorf("ToPlanTask() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestProjectCard_Validate(t *testing.T) {
	valid := ProjectCard{ID: "1", Titulo: "a", StatusInicial: ImportBacklog, Prioridade: ImportLow}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Expected valid card, got %v", err)
	}

	bad := valid
	bad.XP = ptr(-1)
	if err := bad.Validate(); err == nil {
		t.Error("Expected negative xp to be rejected")
	}
}

func TestBoard_CloneIsIndependent(t *testing.T) {
	b := Board{UserID: "u1", Cards: []Card{{ID: "a"}}, Columns: []Column{{ID: "c"}}}

	clone := b.Clone()
	clone.Cards[0].ID = "changed"
	clone.Columns[0].ID = "changed"

	if b.Cards[0].ID != "a" || b.Columns[0].ID != "c" {
		t.Error("Expected clone not to share backing arrays")
	}
}
