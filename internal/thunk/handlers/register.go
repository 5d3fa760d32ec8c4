package handlers

import "github.com/formwright/formengine/internal/registry"

// RegisterAll binds every built-in handler to its subkind. Unlike the
// teacher's blank-import plugin registration (each plugin package's own
// init() self-registers into a package-level singleton), handlers here carry
// no collaborator state and the registry itself is scoped per process, so an
// explicit call at startup is clearer than import-for-side-effects.
func RegisterAll(reg *registry.ThunkHandlerRegistry) error {
	all := []registry.ThunkHandler{
		ReferenceHandler{},
		FormatHandler{},
		PipelineHandler{},
		ConditionalHandler{},
		IterateFilterHandler{},
		IterateMapHandler{},
		IterateFindHandler{},
		CollectionHandler{},
		TestHandler{},
		AndHandler{},
		OrHandler{},
		XorHandler{},
		NotHandler{},
		FunctionConditionHandler{},
		FunctionTransformerHandler{},
		FunctionGeneratorHandler{},
		FunctionEffectHandler{},
		ValidationHandler{},
		NextHandler{},
		ThrowErrorHandler{},
		LoadHandler{},
		AccessHandler{},
		ActionHandler{},
		SubmitHandler{},
	}
	for _, h := range all {
		if err := reg.Register(h); err != nil {
			return err
		}
	}
	return nil
}
