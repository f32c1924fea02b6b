package repository

import (
	"context"

	"github.com/smallbiznis/replate/internal/invitation/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

// List computes each invitation's status from expires_at against filter.Now, so
// the same query works on every supported dialect.
func (r *repository) List(ctx context.Context, filter domain.ListFilter) ([]domain.InvitationSummary, error) {
	q := r.db.WithContext(ctx).
		Table("sso_invitations AS s").
		Select(`s.id AS invitation_id,
			o.auth0_org_id AS auth0_org_id,
			o.name AS name,
			o.org_type AS org_type,
			o.domain AS domain,
			s.link AS link,
			s.created_at AS created_at,
			CASE WHEN s.expires_at < ? THEN 'expired' ELSE 'invited' END AS sso_status`, filter.Now).
		Joins("JOIN organizations o ON o.id = s.organization_id").
		Where("o.auth0_org_id = ?", filter.OrgExternalID)

	if filter.OrgType != "" {
		q = q.Where("o.org_type = ?", filter.OrgType)
	}
	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		q = q.Where("(o.name LIKE ? OR o.domain LIKE ?)", like, like)
	}
	switch filter.Status {
	case "":
	case domain.StatusExpired:
		q = q.Where("s.expires_at < ?", filter.Now)
	case domain.StatusInvited:
		q = q.Where("s.expires_at >= ?", filter.Now)
	default:
		q = q.Where("o.sso_status = ?", filter.Status)
	}

	var items []domain.InvitationSummary
	if err := q.Order("s.created_at DESC").Order("s.id DESC").Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) Create(ctx context.Context, inv *domain.Invitation) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *repository) Delete(ctx context.Context, organizationID, id int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", id, organizationID).
		Delete(&domain.Invitation{})
	return res.RowsAffected, res.Error
}
