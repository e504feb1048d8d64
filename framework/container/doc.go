// Package container provides a binding-resolution dependency injection
// container for Go.
//
// # Overview
//
// A container answers one question: "give me an instance of this type".
// It looks for a binding of the type first and falls back to reflective
// construction when none exists. Constructor parameters of the type being
// built are resolved through bindings again, with the type being built as
// the requester, which is what makes constrained bindings work.
//
// # Bindings
//
//	// Class binding: Logger is answered with a *ConsoleLogger, built once.
//	container.BindType[Logger](b).To(container.TypeOf[*ConsoleLogger]())
//
//	// Constrained binding: only *ReportService receives a *SqlRepo.
//	container.BindType[Repo](b).
//	    To(container.TypeOf[*SqlRepo]()).
//	    When(container.TypeOf[*ReportService]())
//
//	// Constant constructor argument for the bound class.
//	container.BindType[Mailer](b).
//	    To(container.TypeOf[*SmtpMailer]()).
//	    WithArg("timeout", 30)
//
//	// Constant binding.
//	container.BindType[*Config](b).ToConstant(cfg)
//
// At most one unconstrained binding may exist per parent type. Constrained
// bindings are picked over unconstrained ones whenever their constraint is
// the requesting type.
//
// # Constructors
//
// Types are built through a TypeIntrospector. The default Catalog builds
// structs from their exported fields and calls registered constructor
// functions for everything else:
//
//	catalog := container.NewCatalog()
//	catalog.MustRegister(NewSmtpMailer, container.Arg("logger"), container.Arg("timeout"))
//
// Parameters without a class type (numbers, strings, ...) need a constant
// constructor argument. Optional parameters that receive no constant
// argument are left out of the call entirely; the constructor then only sees
// its default when the omitted parameters are trailing. Omitting an earlier
// one shifts later arguments left. A shifted argument of a different type
// fails construction, but one of the same type is silently assigned to the
// earlier parameter: with NewPair(first, second int) and only "second"
// overridden, first receives the override and second its default.
//
// Constant arguments are converted to the parameter type only when the value
// survives intact, so -1 is rejected for a uint and 30.9 for an int.
//
// # Containers
//
//	type AppContainer struct{}
//
//	func (AppContainer) RegisterModules() []container.Module { ... }
//
//	c, err := container.Instance[AppContainer]()   // one per process
//	logger, err := container.Resolve[Logger](c)
//
// Class bindings are singletons for the life of their container, and are
// constructed at most once even under concurrent first access. Circular
// binding chains fail with an UnresolveableClassError.
package container
