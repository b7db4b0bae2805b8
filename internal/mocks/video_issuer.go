package mocks

import (
	"github.com/flayve23/flayve-oficial/pkg/videotoken"
	"github.com/stretchr/testify/mock"
)

type VideoIssuer struct {
	mock.Mock
}

func (v *VideoIssuer) Mint(roomName string, identity string, displayName string, grant videotoken.Grant) (videotoken.JoinCredential, error) {
	args := v.Called(roomName, identity, displayName, grant)
	return args.Get(0).(videotoken.JoinCredential), args.Error(1)
}
