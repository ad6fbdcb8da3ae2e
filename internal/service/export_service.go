package service

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/xxxsen/brandbot/internal/repo"
)

const exportPageSize = 500

// ExportService streams admin data as CSV, paging through the repos so a
// large table never sits in memory at once.
type ExportService struct {
	leads    *repo.LeadRepo
	chatLogs *repo.ChatLogRepo
}

func NewExportService(leads *repo.LeadRepo, chatLogs *repo.ChatLogRepo) *ExportService {
	return &ExportService{leads: leads, chatLogs: chatLogs}
}

func (s *ExportService) LeadsCSV(ctx context.Context, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "name", "email", "phone", "ip_address", "valid_email", "session_id", "created_at"}); err != nil {
		return err
	}
	for offset := 0; ; offset += exportPageSize {
		items, err := s.leads.List(ctx, exportPageSize, offset)
		if err != nil {
			return err
		}
		for _, item := range items {
			row := []string{
				strconv.FormatInt(item.ID, 10),
				item.Name,
				item.Email,
				item.Phone,
				item.IPAddress,
				strconv.FormatBool(item.ValidEmail),
				item.SessionID,
				formatMillis(item.Ctime),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		if len(items) < exportPageSize {
			break
		}
	}
	cw.Flush()
	return cw.Error()
}

func (s *ExportService) ChatLogsCSV(ctx context.Context, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "session_id", "user_message", "reply", "best_score", "lead_email", "created_at"}); err != nil {
		return err
	}
	for offset := 0; ; offset += exportPageSize {
		items, err := s.chatLogs.ListRecent(ctx, exportPageSize, offset)
		if err != nil {
			return err
		}
		for _, item := range items {
			row := []string{
				strconv.FormatInt(item.ID, 10),
				item.SessionID,
				item.UserMessage,
				item.Reply,
				strconv.FormatFloat(float64(item.BestScore), 'f', 4, 32),
				item.LeadEmail,
				formatMillis(item.Ctime),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		if len(items) < exportPageSize {
			break
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatMillis(ms int64) string {
	if ms == 0 {
		return ""
	}
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}
