package services

import (
	"context"
	"sync"

	"devblog/internal/logger"

	"go.uber.org/zap"
)

type EmailJob struct {
	CampaignID string
	To         []string
	Subject    string
	Body       string
}

// Mailer доставляет письмо пачке адресатов.
type Mailer interface {
	Send(ctx context.Context, job EmailJob) error
}

// LogMailer: заглушка доставки: письма только пишутся в лог.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, job EmailJob) error {
	logger.Log.Info("Рассылка: письмо отправлено (mock)",
		zap.String("campaign_id", job.CampaignID),
		zap.Int("recipients", len(job.To)),
		zap.String("subject", job.Subject),
	)
	return nil
}

// MailQueue: очередь писем с одним фоновым воркером.
type MailQueue struct {
	jobs   chan EmailJob
	mailer Mailer
	wg     sync.WaitGroup
	once   sync.Once
}

func NewMailQueue(mailer Mailer, size int) *MailQueue {
	if size <= 0 {
		size = 100
	}
	return &MailQueue{jobs: make(chan EmailJob, size), mailer: mailer}
}

func (q *MailQueue) Start() {
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		for job := range q.jobs {
			if err := q.mailer.Send(context.Background(), job); err != nil {
				logger.Log.Error("Не удалось отправить письмо",
					zap.String("campaign_id", job.CampaignID),
					zap.Error(err),
				)
			}
		}
	}()
}

func (q *MailQueue) Enqueue(job EmailJob) {
	q.jobs <- job
}

// Close закрывает очередь и ждёт, пока воркер дошлёт оставшиеся письма.
func (q *MailQueue) Close() {
	q.once.Do(func() { close(q.jobs) })
	q.wg.Wait()
}

func chunkStrings(all []string, n int) [][]string {
	if n <= 0 {
		n = 50
	}
	var out [][]string
	for i := 0; i < len(all); i += n {
		j := i + n
		if j > len(all) {
			j = len(all)
		}
		out = append(out, all[i:j])
	}
	return out
}
