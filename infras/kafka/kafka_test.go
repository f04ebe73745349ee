package kafka_test

import (
	"context"
	"errors"
	"testing"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"vcardops/infras/kafka"
	"vcardops/infras/kafka/mocks"
)

func TestConsume_CommitsEveryMessageUntilCancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	reader := mocks.NewMockReader(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := kafkaGo.Message{Topic: "reservations.ingested", Offset: 1, Value: []byte(`{"bad"`)}
	second := kafkaGo.Message{Topic: "reservations.ingested", Offset: 2, Value: []byte(`{}`)}

	gomock.InOrder(
		reader.EXPECT().FetchMessage(gomock.Any()).Return(first, nil),
		reader.EXPECT().CommitMessages(gomock.Any(), first).Return(nil),
		reader.EXPECT().FetchMessage(gomock.Any()).Return(second, nil),
		reader.EXPECT().CommitMessages(gomock.Any(), second).Return(errors.New("rebalance")),
		reader.EXPECT().FetchMessage(gomock.Any()).DoAndReturn(func(context.Context) (kafkaGo.Message, error) {
			cancel()

			return kafkaGo.Message{}, context.Canceled
		}),
		reader.EXPECT().Close().Return(nil),
	)

	var handled []int64

	consumer := kafka.NewWithReader(func(topic string) kafka.Reader {
		assert.Equal(t, "reservations.ingested", topic)

		return reader
	})

	err := consumer.Consume(ctx, "reservations.ingested", func(_ context.Context, msg kafkaGo.Message) error {
		handled = append(handled, msg.Offset)

		if msg.Offset == 1 {
			return errors.New("malformed event")
		}

		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, handled)
}

func TestConsume_FetchError(t *testing.T) {
	ctrl := gomock.NewController(t)
	reader := mocks.NewMockReader(ctrl)

	reader.EXPECT().FetchMessage(gomock.Any()).Return(kafkaGo.Message{}, errors.New("broker down"))
	reader.EXPECT().Close().Return(nil)

	consumer := kafka.NewWithReader(func(string) kafka.Reader { return reader })

	err := consumer.Consume(context.Background(), "reservations.ingested", func(context.Context, kafkaGo.Message) error {
		t.Fatal("handler must not run")

		return nil
	})

	assert.ErrorContains(t, err, "broker down")
}

func TestConsume_EmptyTopic(t *testing.T) {
	consumer := kafka.NewWithReader(func(string) kafka.Reader {
		t.Fatal("reader must not be created")

		return nil
	})

	assert.ErrorIs(t, consumer.Consume(context.Background(), "", nil), kafka.ErrEmptyTopic)
}

func TestDecode(t *testing.T) {
	type event struct {
		HotelID int64 `json:"hotel_id"`
	}

	got, err := kafka.Decode[event](kafkaGo.Message{Value: []byte(`{"hotel_id":4}`)})
	require.NoError(t, err)
	assert.Equal(t, int64(4), got.HotelID)

	_, err = kafka.Decode[event](kafkaGo.Message{Value: []byte(`nope`)})
	assert.Error(t, err)
}
