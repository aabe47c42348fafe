package ranch_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nonibytes/ranch/ranch"
)

func loadSpec(t *testing.T) *ranch.Spec {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", "specs.json"))
	require.NoError(t, err)
	spec, err := ranch.ParseSpec(b)
	require.NoError(t, err)
	return spec
}

// singleCountry builds a dataset with one country and no regions.
func singleCountry(code string, details ranch.Details) *ranch.Spec {
	return &ranch.Spec{
		Details: ranch.Details{},
		Subs: map[string]*ranch.Spec{
			code: {Details: details, Subs: map[string]*ranch.Spec{}},
		},
	}
}

func keys(fds []ranch.FieldDescriptor) []ranch.Field {
	out := make([]ranch.Field, 0, len(fds))
	for _, fd := range fds {
		out = append(out, fd.Key)
	}
	return out
}

func descriptor(t *testing.T, fds []ranch.FieldDescriptor, f ranch.Field) ranch.FieldDescriptor {
	t.Helper()
	for _, fd := range fds {
		if fd.Key == f {
			return fd
		}
	}
	t.Fatalf("no descriptor for %s in %v", f, keys(fds))
	return ranch.FieldDescriptor{}
}
