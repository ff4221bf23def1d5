package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/seu-repo/quest-board/internal/adapter/storage/sqlite"
	"github.com/seu-repo/quest-board/internal/domain"
	"github.com/seu-repo/quest-board/internal/service/planner"
	"github.com/seu-repo/quest-board/pkg/config"
)

const sampleProject = `{
	"__instrucoes": "Arraste os cards",
	"cards": [
		{"id": "1", "titulo": "Definir Marca", "descricao": "", "status_inicial": "Backlog", "prioridade": "Alta", "xp": 50, "categoria": "Digital", "proximos": ["2"]},
		{"id": "2", "titulo": "Abrir Loja", "descricao": "", "status_inicial": "Concluído", "prioridade": "Baixa", "categoria": "Físico", "proximos": []}
	]
}`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestImportCommand_RendersPreview(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")
	if err := os.WriteFile(path, []byte(sampleProject), 0o600); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	out, err := run(t, "import", path)

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	for _, want := range []string{"Definir Marca", "Abrir Loja", "Backlog", "Concluído", "2 cards"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q", want)
		}
	}
}

func TestImportCommand_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	os.WriteFile(path, []byte(`{"cards": [`), 0o600)

	if _, err := run(t, "import", path); err == nil {
		t.Error("Expected parse error")
	}
}

func TestVersionCommand(t *testing.T) {
	SetVersion("1.2.3", "abc")

	out, err := run(t, "version")

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.Contains(out, "1.2.3") {
		t.Errorf("Expected version in output, got %q", out)
	}
}

func TestRenderBoard_OrdersLanes(t *testing.T) {
	b := domain.Board{
		Columns: []domain.Column{
			{ID: "done", Name: domain.DoneColumnName, Position: 2},
			{ID: "todo", Name: domain.BacklogColumnName, Position: 0},
		},
		Cards: []domain.Card{
			{ID: "b", ColumnID: "todo", Title: "Segundo", Position: 1},
			{ID: "a", ColumnID: "todo", Title: "Primeiro", Position: 0},
		},
	}

	out := RenderBoard(b)

	if strings.Index(out, "Backlog") > strings.Index(out, domain.DoneColumnName) {
		t.Error("Expected Backlog lane before the done lane")
	}
	if strings.Index(out, "Primeiro") > strings.Index(out, "Segundo") {
		t.Error("Expected cards in position order")
	}
}

func TestGeneratePlan_ReplacesBoard(t *testing.T) {
	// Arrange
	log, _ := zap.NewDevelopment()
	db, err := sqlite.OpenMemory(log)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	e := &env{cfg: &config.Config{}, log: log, db: db}
	tasks := planner.InitialTasks()

	// Act
	b, err := generatePlan(context.Background(), e, "user-1", tasks)

	// Assert
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(b.Columns) != 3 {
		t.Fatalf("Expected 3 columns, got %d", len(b.Columns))
	}
	if len(b.Cards) != len(tasks) {
		t.Fatalf("Expected %d cards, got %d", len(tasks), len(b.Cards))
	}
	backlog := b.Columns[0].ID
	for _, c := range b.Cards {
		if c.ColumnID != backlog {
			t.Errorf("Expected card %q in backlog", c.Title)
		}
	}
	if !strings.Contains(RenderBoard(*b), tasks[0].Title) {
		t.Error("Expected rendered board to list the first task")
	}
}
