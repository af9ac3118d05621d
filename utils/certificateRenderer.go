package utils

import (
	"encoding/json"
	"fmt"
	"log"

	"cursos/config"
	"cursos/services"

	"github.com/go-resty/resty/v2"
)

// RemoteCertificateRenderer asks the external render service for the
// certificate document and returns the URL it was stored under.
type RemoteCertificateRenderer struct{}

func (RemoteCertificateRenderer) Render(data services.CertificateData) (string, error) {
	client := resty.New()
	resp, err := client.R().
		SetHeader("Authorization", "Bearer "+config.AppConfig.CertRenderKey).
		SetBody(map[string]interface{}{
			"learner_id":        data.LearnerID,
			"course_id":         data.CourseID,
			"verification_code": data.VerificationCode,
			"verify_url":        fmt.Sprintf("%s/certificates/verify/%s", config.AppConfig.BaseURL, data.VerificationCode),
		}).
		Post(config.AppConfig.CertRenderURL + "/render")
	if err != nil {
		log.Printf("[CERT-RENDER] render request failed: %v", err)
		return "", err
	}
	if resp.StatusCode() != 200 {
		log.Printf("[CERT-RENDER] render service returned %d: %s", resp.StatusCode(), resp.String())
		return "", fmt.Errorf("render service returned %d", resp.StatusCode())
	}

	var rendered struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(resp.Body(), &rendered); err != nil {
		return "", fmt.Errorf("invalid render response: %w", err)
	}
	return rendered.URL, nil
}

// NewCertificateRenderer returns the remote renderer when one is
// configured, nil otherwise (the service then falls back to a local
// artifact path).
func NewCertificateRenderer() services.CertificateRenderer {
	if config.AppConfig.CertRenderURL == "" {
		return nil
	}
	return RemoteCertificateRenderer{}
}
