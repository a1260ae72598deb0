package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"time"

	"github.com/redis/go-redis/v9"

	"roomnmeal/internal/logger"
	"roomnmeal/internal/metrics"
	"roomnmeal/internal/user"
)

const (
	queueKey  = "notifications:email"
	failedKey = "notifications:email:failed"

	maxTries   = 3
	retryDelay = 5 * time.Second
)

// UserDirectory resolves the recipient's name and email address.
type UserDirectory interface {
	FindByID(ctx context.Context, id int) (*user.User, error)
}

type Service struct {
	repo  Repository
	users UserDirectory
	redis *redis.Client

	from     string
	fromName string
	smtpHost string
	smtpPort string
	smtpUser string
	smtpPass string
}

func New(repo Repository, users UserDirectory, redisAddr, fromEmail, fromName, smtpHost, smtpPort, smtpUser, smtpPass string) *Service {
	return &Service{
		repo:  repo,
		users: users,
		redis: redis.NewClient(&redis.Options{
			Addr: redisAddr,
		}),
		from:     fromEmail,
		fromName: fromName,
		smtpHost: smtpHost,
		smtpPort: smtpPort,
		smtpUser: smtpUser,
		smtpPass: smtpPass,
	}
}

// Notify writes the in-app notification row and queues an email copy.
// Both halves are best-effort: a failure here must never fail the
// business operation that triggered it.
func (s *Service) Notify(ctx context.Context, userID int, title, body string, metadata map[string]string) {
	meta, err := json.Marshal(metadata)
	if err != nil {
		meta = []byte("{}")
	}

	if _, err := s.repo.Create(ctx, userID, title, body, meta); err != nil {
		logger.Errorf("Failed to store notification for user %d: %v", userID, err)
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		logger.Errorf("Failed to resolve notification recipient %d: %v", userID, err)
		return
	}

	if err := s.queueEmail(ctx, u.Email, u.Name, title, body); err != nil {
		logger.Errorf("Failed to queue email to %s: %v", u.Email, err)
	}
}

func (s *Service) queueEmail(ctx context.Context, to, name, subject, body string) error {
	job := EmailJob{
		To:      to,
		Name:    name,
		Subject: subject,
		Body:    body,
		Tries:   0,
		Created: time.Now(),
	}

	data, err := json.Marshal(job)
	if err != nil {
		return err
	}

	if err := s.redis.LPush(ctx, queueKey, data).Err(); err != nil {
		return err
	}

	metrics.NotificationQueueLength.Inc()
	logger.Infof("Email queued: %s to %s", subject, to)
	return nil
}

// Start runs the delivery loop until ctx is cancelled.
func (s *Service) Start(ctx context.Context) {
	logger.Info("notification worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("notification worker stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if err != nil {
		return
	}

	metrics.NotificationQueueLength.Dec()

	var job EmailJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Errorf("Bad email job data: %v", err)
		metrics.RecordNotification("malformed")
		return
	}

	job.Tries++
	if err := s.sendNow(job); err != nil {
		logger.Errorf("Failed to send email to %s (attempt %d): %v", job.To, job.Tries, err)

		if job.Tries < maxTries {
			time.Sleep(retryDelay)
			data, _ := json.Marshal(job)
			s.redis.LPush(context.Background(), queueKey, data)
			metrics.NotificationQueueLength.Inc()
		} else {
			s.saveFailed(job, err)
			metrics.RecordNotification("failed")
		}
		return
	}

	metrics.RecordNotification("sent")
	logger.Infof("Email sent to %s", job.To)
}

func (s *Service) sendNow(job EmailJob) error {
	message := fmt.Sprintf("From: %s <%s>\r\n", s.fromName, s.from)
	message += fmt.Sprintf("To: %s\r\n", job.To)
	message += fmt.Sprintf("Subject: %s\r\n", job.Subject)
	message += "\r\n" + fmt.Sprintf("Hi %s,\r\n\r\n%s\r\n\r\n- %s", job.Name, job.Body, s.fromName)

	var auth smtp.Auth
	if s.smtpUser != "" && s.smtpPass != "" {
		auth = smtp.PlainAuth("", s.smtpUser, s.smtpPass, s.smtpHost)
	}

	addr := s.smtpHost + ":" + s.smtpPort
	return smtp.SendMail(addr, auth, s.from, []string{job.To}, []byte(message))
}

func (s *Service) saveFailed(job EmailJob, err error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": err.Error(),
		"time":  time.Now(),
	}
	data, _ := json.Marshal(failed)
	s.redis.LPush(context.Background(), failedKey, data)
	logger.Errorf("Email to %s moved to failed queue after %d attempts", job.To, job.Tries)
}

func (s *Service) QueueLength(ctx context.Context) int64 {
	length, _ := s.redis.LLen(ctx, queueKey).Result()
	return length
}

func (s *Service) Close() error {
	return s.redis.Close()
}
