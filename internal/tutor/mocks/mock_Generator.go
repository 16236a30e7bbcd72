// Package mocks provides test doubles for the tutor package.
package mocks

import (
	"context"

	mock "github.com/stretchr/testify/mock"
)

// MockGenerator is a mock type for the Generator interface.
type MockGenerator struct {
	mock.Mock
}

// Generate provides a mock function with given fields: ctx, system, prompt
func (_m *MockGenerator) Generate(ctx context.Context, system string, prompt string) (string, error) {
	ret := _m.Called(ctx, system, prompt)

	if len(ret) == 0 {
		panic("no return value specified for Generate")
	}

	var r0 string
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string, string) (string, error)); ok {
		return rf(ctx, system, prompt)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string, string) string); ok {
		r0 = rf(ctx, system, prompt)
	} else {
		r0 = ret.Get(0).(string)
	}
	r1 = ret.Error(1)

	return r0, r1
}

// NewMockGenerator creates a new instance of MockGenerator.
func NewMockGenerator(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockGenerator {
	m := &MockGenerator{}
	m.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
