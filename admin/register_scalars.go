package admin

import (
	"errors"
	"reflect"
	"sync"
	"time"

	"go.cachewatch.io/adminapi/schemagen"
)

var dateTimeOnce sync.Once

// registerDateTimeScalar registers the DateTime scalar backed by time.Time.
// Scalar registration is process global, so it runs once no matter how many
// schemas are generated.
func registerDateTimeScalar() {
	dateTimeOnce.Do(func() {
		typ := reflect.TypeOf(time.Time{})
		if err := schemagen.RegisterScalar(typ, "DateTime", func(value interface{}, dest reflect.Value) error {
			v, ok := value.(string)
			if !ok {
				return errors.New("invalid type expected string")
			}

			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				return err
			}

			dest.Set(reflect.ValueOf(t))
			return nil
		}); err != nil {
			panic(err)
		}
	})
}
