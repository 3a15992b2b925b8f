package v1

import (
	"context"

	"sitelink.com/sitelink/model"
)

type SafetyEndpoint struct {
	incidents *Resource[model.Incident]
}

func (ep *SafetyEndpoint) GetIncidents(ctx context.Context) ([]model.Incident, error) {
	return ep.incidents.GetAll(ctx)
}

func (ep *SafetyEndpoint) ReportIncident(ctx context.Context, payload any) (*model.Incident, error) {
	return ep.incidents.Create(ctx, payload)
}

func (ep *SafetyEndpoint) UpdateIncident(ctx context.Context, id int, partial any) (*model.Incident, error) {
	return ep.incidents.Update(ctx, id, partial)
}

// Incidents exposes the incident collection as a plain resource.
func (ep *SafetyEndpoint) Incidents() *Resource[model.Incident] {
	return ep.incidents
}

type MaterialEndpoint struct {
	requests *Resource[model.MaterialRequest]
}

func (ep *MaterialEndpoint) GetRequests(ctx context.Context) ([]model.MaterialRequest, error) {
	return ep.requests.GetAll(ctx)
}

func (ep *MaterialEndpoint) CreateRequest(ctx context.Context, payload any) (*model.MaterialRequest, error) {
	return ep.requests.Create(ctx, payload)
}

func (ep *MaterialEndpoint) Requests() *Resource[model.MaterialRequest] {
	return ep.requests
}
