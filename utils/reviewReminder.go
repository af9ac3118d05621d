package utils

import (
	"fmt"
	"log"

	"cursos/config"
	"cursos/database"
	"cursos/models"
	courseModels "cursos/models/course"

	"github.com/robfig/cron/v3"
)

// InitializeReviewReminderScheduler sets up the daily digest of payments
// waiting for a decision. Read-only over the ledger; it never touches the
// state machine.
func InitializeReviewReminderScheduler() {
	log.Println("[REVIEW-REMINDER] Initializing review reminder scheduler...")

	c := cron.New()

	if _, err := c.AddFunc(config.AppConfig.ReviewReminderCron, func() {
		log.Println("[REVIEW-REMINDER] Running pending review check...")
		SendPendingReviewDigests()
	}); err != nil {
		log.Printf("[REVIEW-REMINDER] Invalid cron expression %q: %v", config.AppConfig.ReviewReminderCron, err)
		return
	}

	c.Start()
	log.Printf("[REVIEW-REMINDER] Scheduler started (%s)", config.AppConfig.ReviewReminderCron)
}

// SendPendingReviewDigests emails each instructor how many payments are
// sitting in their review queue.
func SendPendingReviewDigests() {
	db := database.Database.Db

	type pendingRow struct {
		AuthorID uint
		Count    int64
	}
	var rows []pendingRow
	if err := db.Model(&courseModels.Payment{}).
		Select("courses.author_id AS author_id, COUNT(payments.id) AS count").
		Joins("JOIN enrollments ON enrollments.id = payments.enrollment_id").
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Where("payments.status = ? AND payments.is_deleted = ?", courseModels.PaymentPendingReview, false).
		Group("courses.author_id").
		Find(&rows).Error; err != nil {
		log.Printf("[REVIEW-REMINDER] Error fetching pending payments: %v", err)
		return
	}

	log.Printf("[REVIEW-REMINDER] Found %d instructors with pending reviews", len(rows))

	for _, row := range rows {
		var instructor models.User
		if err := db.Where("id = ? AND is_deleted = ?", row.AuthorID, false).First(&instructor).Error; err != nil {
			log.Printf("[REVIEW-REMINDER] Error fetching instructor %d: %v", row.AuthorID, err)
			continue
		}

		subject := "Payments waiting for your review"
		body := fmt.Sprintf(`
			<p>Dear %s,</p>
			<p>You have <strong>%d</strong> payment proof(s) waiting for a decision.</p>
			<p>Learners cannot access their courses until you approve or reject them.</p>
			<a class="btn" href="%s/instructor/payments/pending">Review now</a>
		`, instructor.Name, row.Count, config.AppConfig.BaseURL)

		go SendEmail([]string{instructor.Email}, subject, getEmailTemplate(subject, body))
		log.Printf("[REVIEW-REMINDER] Sent digest to %s (%d pending)", instructor.Email, row.Count)
	}
}
