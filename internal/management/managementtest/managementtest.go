// Package managementtest provides a testify mock of the management API.
package managementtest

import (
	"context"

	"github.com/smallbiznis/replate/internal/management"
	"github.com/stretchr/testify/mock"
)

type Mock struct {
	mock.Mock
}

var _ management.Service = (*Mock)(nil)

func (m *Mock) CreateOrganization(ctx context.Context, name, domain string) (*management.Organization, error) {
	args := m.Called(ctx, name, domain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*management.Organization), args.Error(1)
}

func (m *Mock) CreateSSOTicket(ctx context.Context, req management.SSOTicketRequest) (*management.SSOTicket, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*management.SSOTicket), args.Error(1)
}
