package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"housemanagement/internal/database"
	"housemanagement/internal/models"
	"housemanagement/internal/policy"
	"housemanagement/internal/repositories"
	"housemanagement/internal/types"
	"housemanagement/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
)

const (
	personalDataSubject = "Your Personal Data Summary"
	missingValue        = "ไม่พบข้อมูล"

	MsgPersonalDataSent    = "เราได้ส่งข้อมูลส่วนตัวไปยังอีเมลของคุณเรียบร้อยแล้ว"
	MsgPersonalDataNoEmail = "ไม่พบอีเมลในบัญชี ผู้ดูแลระบบไม่สามารถส่งข้อมูลส่วนตัวได้"
)

// PersonalDataExport is what the user receives. Identifiers are masked.
type PersonalDataExport struct {
	Username     string    `json:"username"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	NationalID   string    `json:"nationalId"`
	TaxID        string    `json:"taxId"`
	DesignCount  int64     `json:"designCount"`
	QuoteCount   int64     `json:"quoteCount"`
	ProjectCount int64     `json:"projectCount"`
	GeneratedAt  time.Time `json:"generatedAt"`
}

func (e PersonalDataExport) SummaryLine() string {
	return fmt.Sprintf(
		"คุณมีแบบบ้าน %d รายการ, ใบเสนอราคา %d รายการ และโครงการก่อสร้าง %d โครงการ",
		e.DesignCount, e.QuoteCount, e.ProjectCount,
	)
}

type PrivacyService struct {
	db     database.DB
	repos  repositories.Repository
	mailer Mailer
	log    logger.Logger
}

func NewPrivacyService(db database.DB, repos repositories.Repository, mailer Mailer) *PrivacyService {
	return &PrivacyService{
		db:     db,
		repos:  repos,
		mailer: mailer,
		log:    logger.New("PrivacyService"),
	}
}

func orMissing(value string) string {
	if value == "" {
		return missingValue
	}
	return value
}

// BuildExport counts only the user's own records, whatever their role.
func (s *PrivacyService) BuildExport(ctx context.Context, user *models.User) (*PersonalDataExport, error) {
	tx := s.db.SQL

	designs, err := s.repos.Design.Count(ctx, tx, policy.Owned(user, policy.Designs))
	if err != nil {
		return nil, err
	}
	quotes, err := s.repos.Quote.Count(ctx, tx, policy.Owned(user, policy.Quotes), "")
	if err != nil {
		return nil, err
	}
	projects, err := s.repos.Project.Count(ctx, tx, policy.Owned(user, policy.Projects))
	if err != nil {
		return nil, err
	}

	export := &PersonalDataExport{
		Username:     user.Username,
		FullName:     user.DisplayName(),
		Email:        user.Email,
		Phone:        missingValue,
		Address:      missingValue,
		NationalID:   missingValue,
		TaxID:        missingValue,
		DesignCount:  designs,
		QuoteCount:   quotes,
		ProjectCount: projects,
		GeneratedAt:  time.Now(),
	}

	if profile := user.Profile; profile != nil {
		export.Phone = orMissing(profile.Phone)
		export.Address = orMissing(profile.Address)
		export.NationalID = orMissing(utils.MaskIdentifier(profile.NationalID))
		export.TaxID = orMissing(utils.MaskIdentifier(profile.TaxID))
	}

	return export, nil
}

// EmailPersonalData sends the export to the user's own address.
func (s *PrivacyService) EmailPersonalData(ctx context.Context, user *models.User) error {
	log := s.log.TraceFromContext(ctx).Function("EmailPersonalData")

	if !user.HasEmail() {
		return types.ErrMissingEmail
	}

	export, err := s.BuildExport(ctx, user)
	if err != nil {
		return err
	}

	var html bytes.Buffer
	if err := personalDataTemplate.Execute(&html, export); err != nil {
		return log.Err("failed to render personal data email", err, "userID", user.ID)
	}

	return s.mailer.Send(ctx, Email{
		To:      []string{user.Email},
		Subject: personalDataSubject,
		Text:    personalDataText(export),
		HTML:    html.String(),
	})
}

func personalDataText(e *PersonalDataExport) string {
	return fmt.Sprintf(
		"ข้อมูลส่วนตัวของคุณ\n\n"+
			"ชื่อผู้ใช้: %s\nชื่อ-นามสกุล: %s\nอีเมล: %s\nโทรศัพท์: %s\nที่อยู่: %s\n"+
			"เลขประจำตัวประชาชน: %s\nเลขประจำตัวผู้เสียภาษี: %s\n\n%s\n\nสร้างเมื่อ: %s\n",
		e.Username, e.FullName, e.Email, e.Phone, e.Address,
		e.NationalID, e.TaxID, e.SummaryLine(),
		e.GeneratedAt.Format("2006-01-02 15:04"),
	)
}

var personalDataTemplate = template.Must(template.New("personal_data").Parse(`<!DOCTYPE html>
<html lang="th">
<head><meta charset="UTF-8"><title>Your Personal Data Summary</title></head>
<body style="font-family: sans-serif; color: #1f2933; max-width: 600px; margin: 0 auto;">
  <h2>ข้อมูลส่วนตัวของคุณ</h2>
  <table cellpadding="6">
    <tr><th align="left">ชื่อผู้ใช้</th><td>{{.Username}}</td></tr>
    <tr><th align="left">ชื่อ-นามสกุล</th><td>{{.FullName}}</td></tr>
    <tr><th align="left">อีเมล</th><td>{{.Email}}</td></tr>
    <tr><th align="left">โทรศัพท์</th><td>{{.Phone}}</td></tr>
    <tr><th align="left">ที่อยู่</th><td>{{.Address}}</td></tr>
    <tr><th align="left">เลขประจำตัวประชาชน</th><td>{{.NationalID}}</td></tr>
    <tr><th align="left">เลขประจำตัวผู้เสียภาษี</th><td>{{.TaxID}}</td></tr>
  </table>
  <p>{{.SummaryLine}}</p>
  <p style="font-size: 12px; color: #52606d;">สร้างเมื่อ {{.GeneratedAt.Format "2006-01-02 15:04"}}</p>
</body>
</html>`))
