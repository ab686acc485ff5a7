package mocks

// MockHelper runs background tasks inline so tests can assert on their effects
type MockHelper struct {
	Errors []error
}

func (m *MockHelper) BackgroundTask(fn func() error) {
	if err := fn(); err != nil {
		m.Errors = append(m.Errors, err)
	}
}
