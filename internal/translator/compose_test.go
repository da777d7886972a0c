package translator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const singleServiceSpec = `
services:
  db:
    image: postgres:15
    volumes:
      - type: bind
        source: /var/data
        target: /var/lib/postgresql/data
        bind:
          propagation: rshared
      - type: bind
        source: /var/log/db
        target: /logs
      - type: bind
        source: /mnt/shared
        target: /shared
        bind:
          propagation: rslave
`

const multiServiceSpec = `
services:
  web:
    image: nginx:latest
  db:
    image: postgres:15
`

func TestSingleService(t *testing.T) {
	project, err := loadComposeProject(context.Background(), []byte(singleServiceSpec))
	require.NoError(t, err)

	name, svc, err := singleService(project)
	require.NoError(t, err)
	assert.Equal(t, "db", name)
	assert.Len(t, svc.Volumes, 3)
}

func TestSingleServiceRejectsMultiple(t *testing.T) {
	project, err := loadComposeProject(context.Background(), []byte(multiServiceSpec))
	require.NoError(t, err)

	_, _, err = singleService(project)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSingleServiceRejectsEmpty(t *testing.T) {
	project, err := loadComposeProject(context.Background(), []byte("services: {}\n"))
	require.NoError(t, err)

	_, _, err = singleService(project)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestBindPropagationOrder(t *testing.T) {
	project, err := loadComposeProject(context.Background(), []byte(singleServiceSpec))
	require.NoError(t, err)

	_, svc, err := singleService(project)
	require.NoError(t, err)

	hints := bindPropagation(svc)
	require.Len(t, hints, 3)
	assert.Equal(t, PropagationBidirectional, hints[0])
	assert.Equal(t, PropagationNone, hints[1])
	assert.Equal(t, PropagationHostToContainer, hints[2])
}

func TestBindPropagationUnknownMode(t *testing.T) {
	const spec = `
services:
  app:
    image: busybox
    volumes:
      - type: bind
        source: /a
        target: /b
        bind:
          propagation: private
`
	project, err := loadComposeProject(context.Background(), []byte(spec))
	require.NoError(t, err)

	_, svc, err := singleService(project)
	require.NoError(t, err)

	hints := bindPropagation(svc)
	require.Len(t, hints, 1)
	assert.Equal(t, PropagationNone, hints[0])
}
