package regions

import "net/http"

type GuardFunc func(r *http.Request) error

type Options struct {
	RoutePath      string
	DependentParam string
	Guard          GuardFunc

	Regions map[string][]string
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		RoutePath:      "/api/getStates",
		DependentParam: "dependentValue",
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.RoutePath == "" {
		opts.RoutePath = "/api/getStates"
	}
	if opts.DependentParam == "" {
		opts.DependentParam = "dependentValue"
	}
	if opts.Regions != nil {
		copied := make(map[string][]string, len(opts.Regions))
		for country, list := range opts.Regions {
			copied[country] = append([]string{}, list...)
		}
		opts.Regions = copied
	}
	return opts
}

func WithRoutePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RoutePath = path
	}
}

func WithDependentParam(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.DependentParam = name
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

func WithRegions(regions map[string][]string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Regions = regions
	}
}
