package service

import (
	"context"

	"github.com/xxxsen/brandbot/internal/model"
	"github.com/xxxsen/brandbot/internal/repo"
)

// AdminService is the thin read/operate layer behind the admin endpoints.
type AdminService struct {
	gaps     *repo.GapRepo
	leads    *repo.LeadRepo
	chatLogs *repo.ChatLogRepo
}

func NewAdminService(gaps *repo.GapRepo, leads *repo.LeadRepo, chatLogs *repo.ChatLogRepo) *AdminService {
	return &AdminService{gaps: gaps, leads: leads, chatLogs: chatLogs}
}

func (s *AdminService) ListGaps(ctx context.Context, limit int) ([]model.KnowledgeGap, error) {
	return s.gaps.ListActive(ctx, limit)
}

func (s *AdminService) ResolveGap(ctx context.Context, id int64, note string) error {
	return s.gaps.Resolve(ctx, id, note)
}

func (s *AdminService) ListLeads(ctx context.Context, limit, offset int) ([]model.Lead, error) {
	return s.leads.List(ctx, limit, offset)
}

func (s *AdminService) CountLeads(ctx context.Context) (int64, error) {
	return s.leads.Count(ctx)
}

func (s *AdminService) ListChatLogs(ctx context.Context, limit, offset int) ([]model.ChatLog, error) {
	return s.chatLogs.ListRecent(ctx, limit, offset)
}
