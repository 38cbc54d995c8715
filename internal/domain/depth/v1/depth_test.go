package depthv1_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	depthv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/depth/v1"
	depthv1_mock "github.com/muhammadchandra19/spot-exchange/internal/domain/depth/v1/mock"
)

func TestPublishers_Publish(t *testing.T) {
	updates := []depthv1.Update{{Level: depthv1.Level{Symbol: "BTC/USDT"}}}
	errDown := errors.New("redis down")

	testCases := []struct {
		name     string
		mockFn   func(first, second *depthv1_mock.MockPublisher)
		assertFn func(t *testing.T, err error)
	}{
		{
			name: "every publisher receives the batch",
			mockFn: func(first, second *depthv1_mock.MockPublisher) {
				gomock.InOrder(
					first.EXPECT().Publish(gomock.Any(), updates).Return(nil),
					second.EXPECT().Publish(gomock.Any(), updates).Return(nil),
				)
			},
			assertFn: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name: "a failing publisher does not stop the others",
			mockFn: func(first, second *depthv1_mock.MockPublisher) {
				first.EXPECT().Publish(gomock.Any(), updates).Return(errDown)
				second.EXPECT().Publish(gomock.Any(), updates).Return(nil)
			},
			assertFn: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, errDown)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			first := depthv1_mock.NewMockPublisher(ctrl)
			second := depthv1_mock.NewMockPublisher(ctrl)
			tc.mockFn(first, second)

			publishers := depthv1.Publishers{first, second}
			tc.assertFn(t, publishers.Publish(context.Background(), updates))
		})
	}
}
