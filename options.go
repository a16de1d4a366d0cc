// Copyright (c) HashiCorp, Inc.

package sdql

// options holds the optional knobs every build_* facade function accepts.
type options struct {
	strictDiagnostics bool
}

// Option configures a single build_* call.
type Option func(*options) error

func getDefaultOptions() options {
	return options{}
}

func getOpts(opt ...Option) (options, error) {
	opts := getDefaultOptions()

	for _, o := range opt {
		if err := o(&opts); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

// WithStrictDiagnostics requests that schema validation errors be routed
// through the find-issue-in-schema walker so the returned error names the
// exact offending JSON path, rather than a generic schema-wide message.
func WithStrictDiagnostics() Option {
	return func(o *options) error {
		o.strictDiagnostics = true
		return nil
	}
}
