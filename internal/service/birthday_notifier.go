package service

import (
	"context"
	"fmt"
	"time"

	"contacts-data/internal/domain"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// BirthdayNotifier 生日提醒推送
// 定期把未来 N 天内过生日的联系人列表 POST 到配置的 Webhook
type BirthdayNotifier struct {
	contacts   *ContactService
	httpClient *resty.Client
	webhookURL string
	days       int
	logger     *zap.Logger
}

// NewBirthdayNotifier 创建生日提醒推送器
func NewBirthdayNotifier(contacts *ContactService, webhookURL string, days int, logger *zap.Logger) *BirthdayNotifier {
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Content-Type", "application/json")

	return &BirthdayNotifier{
		contacts:   contacts,
		httpClient: client,
		webhookURL: webhookURL,
		days:       days,
		logger:     logger,
	}
}

// birthdayDigest Webhook 载荷
type birthdayDigest struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Days        int             `json:"days"`
	Contacts    []digestContact `json:"contacts"`
}

type digestContact struct {
	ID          int64       `json:"id"`
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	Email       string      `json:"email"`
	PhoneNumber string      `json:"phone_number"`
	Birthday    domain.Date `json:"birthday"`
}

// Notify 拉取一次生日窗口并推送；窗口为空时不发请求
func (n *BirthdayNotifier) Notify(ctx context.Context) error {
	upcoming, err := n.contacts.UpcomingBirthdays(ctx, n.days)
	if err != nil {
		return fmt.Errorf("failed to query upcoming birthdays: %w", err)
	}
	if len(upcoming) == 0 {
		n.logger.Debug("no upcoming birthdays, skipping webhook")
		return nil
	}

	digest := birthdayDigest{
		GeneratedAt: time.Now().UTC(),
		Days:        n.days,
		Contacts:    make([]digestContact, 0, len(upcoming)),
	}
	for _, c := range upcoming {
		digest.Contacts = append(digest.Contacts, digestContact{
			ID:          c.ID,
			FirstName:   c.FirstName,
			LastName:    c.LastName,
			Email:       c.Email,
			PhoneNumber: c.PhoneNumber,
			Birthday:    c.Birthday,
		})
	}

	resp, err := n.httpClient.R().
		SetContext(ctx).
		SetBody(digest).
		Post(n.webhookURL)
	if err != nil {
		return fmt.Errorf("failed to post birthday digest: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("birthday webhook returned status %d", resp.StatusCode())
	}

	n.logger.Info("birthday digest sent",
		zap.Int("contacts", len(digest.Contacts)),
		zap.Int("days", n.days),
	)
	return nil
}

// Run 按固定间隔推送，ctx 取消后退出
func (n *BirthdayNotifier) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := n.Notify(ctx); err != nil {
				n.logger.Error("birthday notify failed", zap.Error(err))
			}
		}
	}
}
