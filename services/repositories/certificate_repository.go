package repositories

import (
	"github.com/startinfo/academy_api/model"
	"gorm.io/gorm"
)

type CertificateRepository struct {
	BaseRepository
}

func NewCertificateRepository(db *gorm.DB) *CertificateRepository {
	return &CertificateRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// CreateCertificate relies on the (user_id, course_id) unique index; a second
// insert for the same pair fails with a duplicate key error.
func (ds *CertificateRepository) CreateCertificate(cert *model.Certificate) (*model.Certificate, error) {
	if cert.ID == "" {
		cert.ID = newID()
	}
	if err := ds.db.Omit("Course").Create(cert).Error; err != nil {
		return nil, err
	}
	return cert, nil
}

func (ds *CertificateRepository) GetCertificate(userID, courseID string) (*model.Certificate, error) {
	var cert model.Certificate
	err := ds.db.Preload("Course").
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&cert).Error
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

func (ds *CertificateRepository) GetUserCertificate(userID, certificateID string) (*model.Certificate, error) {
	var cert model.Certificate
	err := ds.db.Preload("Course").
		Where("id = ? AND user_id = ?", certificateID, userID).
		First(&cert).Error
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

func (ds *CertificateRepository) ListCertificates(userID string) ([]model.Certificate, error) {
	var certs []model.Certificate
	err := ds.db.Preload("Course").
		Where("user_id = ?", userID).
		Order("issued_at DESC").
		Find(&certs).Error
	if err != nil {
		return nil, err
	}
	return certs, nil
}
