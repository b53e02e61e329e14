package publish

import "context"

// MockPublisher is a Publisher for testing.
type MockPublisher struct {
	CreateReleaseFunc func(ctx context.Context, rel Release) (string, error)

	// Created records releases passed to CreateRelease.
	Created []Release
}

// CreateRelease implements Publisher.
func (m *MockPublisher) CreateRelease(ctx context.Context, rel Release) (string, error) {
	m.Created = append(m.Created, rel)
	if m.CreateReleaseFunc != nil {
		return m.CreateReleaseFunc(ctx, rel)
	}
	return "https://example.com/releases/" + rel.Tag, nil
}
