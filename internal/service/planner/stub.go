package planner

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/quest-board/internal/domain"
	"github.com/seu-repo/quest-board/internal/ports"
)

// StubGenerator stands in for an AI planner: it waits, then returns a fixed
// business plan regardless of the description.
type StubGenerator struct {
	delay time.Duration
	log   *zap.Logger
}

func NewStubGenerator(delay time.Duration, log *zap.Logger) ports.PlanGenerator {
	return &StubGenerator{delay: delay, log: log}
}

func (g *StubGenerator) Generate(ctx context.Context, description string) ([]domain.PlanTask, error) {
	if strings.TrimSpace(description) == "" {
		return nil, &domain.ValidationError{Field: "description", Message: "is required"}
	}

	g.log.Info("Generating project plan", zap.Int("description_length", len(description)))

	if g.delay > 0 {
		timer := time.NewTimer(g.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return InitialTasks(), nil
}

// InitialTasks is the plan returned by the stub generator.
func InitialTasks() []domain.PlanTask {
	return []domain.PlanTask{
		{Title: "Definir Marca e Nome", Description: "Escolher nome comercial (ex.: Igor Tech Solutions), logo simples no Canva.", Priority: domain.PriorityHigh, Points: 20, ServiceType: domain.ServiceBoth},
		{Title: "Criar Catálogo de Serviços", Description: "Listar serviços físicos (formatação, upgrades) e digitais (social media, edição vídeos) com preços iniciais.", Priority: domain.PriorityHigh, Points: 30, ServiceType: domain.ServiceBoth},
		{Title: "Montar Canais de Contato", Description: "Criar WhatsApp Business, Instagram, Linktree com links para serviços.", Priority: domain.PriorityMedium, Points: 15, ServiceType: domain.ServiceDigital},
		{Title: "Primeiros Pacotes Presenciais", Description: "Formatação + SSD + Backup (combo), limpeza + pasta térmica.", Priority: domain.PriorityHigh, Points: 50, ServiceType: domain.ServicePhysical},
		{Title: "Primeiros Pacotes Digitais", Description: "Pacote Social Media Básico (4 posts/semana), edição de vídeos curtos.", Priority: domain.PriorityHigh, Points: 50, ServiceType: domain.ServiceDigital},
		{Title: "Criar Automação Interna", Description: "No N8N: leads do site → WhatsApp; orçamentos automáticos.", Priority: domain.PriorityMedium, Points: 40, ServiceType: domain.ServiceDigital},
		{Title: "Rodar Primeiro Anúncio Local", Description: "Investir R$5–10/dia para impulsionar serviços em Salvador.", Priority: domain.PriorityMedium, Points: 25, ServiceType: domain.ServiceDigital},
		{Title: "Fechar Primeiro Contrato Mensal", Description: "Pacote manutenção preventiva + suporte remoto ou social media.", Priority: domain.PriorityHigh, Points: 60, ServiceType: domain.ServiceBoth},
		{Title: "Pacote Tech + Automação", Description: "Oferecer combo (manutenção + automação de leads + social media) para microempresas.", Priority: domain.PriorityHigh, Points: 80, ServiceType: domain.ServiceBoth},
	}
}
