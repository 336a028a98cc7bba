package ioc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centraunit/ioc"
	"github.com/centraunit/ioc/mock"
)

func TestGet(t *testing.T) {
	c := ioc.New()
	require.NoError(t, c.AddSingleton("db", func() (any, error) {
		return mock.NewMockDB("primary"), nil
	}))
	require.NoError(t, c.Init())
	t.Cleanup(func() { _ = c.Close() })

	t.Run("ConcreteType", func(t *testing.T) {
		db, err := ioc.Get[*mock.MockDB](c, "db")
		require.NoError(t, err)
		assert.Equal(t, "primary", db.DSN)
	})

	t.Run("InterfaceType", func(t *testing.T) {
		db, err := ioc.Get[mock.Database](c, "db")
		require.NoError(t, err)
		assert.True(t, db.IsConnected())
	})

	t.Run("TypeMismatch", func(t *testing.T) {
		_, err := ioc.Get[*mock.Component](c, "db")
		var mismatch *ioc.TypeMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, "*mock.Component", mismatch.Expected)
		assert.Equal(t, "*mock.MockDB", mismatch.Got)
	})

	t.Run("Unregistered", func(t *testing.T) {
		_, err := ioc.Get[*mock.MockDB](c, "replica")
		var lookupErr *ioc.LookupError
		assert.ErrorAs(t, err, &lookupErr)
	})
}

func TestMustGet(t *testing.T) {
	c := ioc.New()
	require.NoError(t, c.AddSingleton("db", func() (any, error) {
		return mock.NewMockDB("primary"), nil
	}))

	assert.Panics(t, func() { ioc.MustGet[*mock.MockDB](c, "db") }, "lookup before Init")

	require.NoError(t, c.Init())
	assert.NotPanics(t, func() { ioc.MustGet[*mock.MockDB](c, "db") })
	assert.Panics(t, func() { ioc.MustGet[string](c, "db") })
	require.NoError(t, c.Close())
}
