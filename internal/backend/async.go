package backend

import (
	"context"

	"github.com/obentoo/dnfkit/internal/async"
	"github.com/obentoo/dnfkit/internal/dnf"
)

// Async exposes Backend operations through result and error callbacks.
// Every callback runs on the dispatcher's owning context; error callbacks
// receive a human-readable message.
type Async struct {
	backend    *Backend
	dispatcher async.Dispatcher
	ctx        context.Context
}

// Async returns the callback surface delivering through d.
// ctx bounds the commands started through it.
func (b *Backend) Async(ctx context.Context, d async.Dispatcher) *Async {
	return &Async{backend: b, dispatcher: d, ctx: ctx}
}

// Search searches packages. A blank query is reported through onError.
func (a *Async) Search(query string, onResult func([]dnf.Package), onError func(string)) {
	async.Run(a.dispatcher, func() ([]dnf.Package, error) {
		return a.backend.Search(a.ctx, query)
	}, onResult, onError)
}

// Info fetches package details
func (a *Async) Info(name string, onResult func(*dnf.PackageInfo), onError func(string)) {
	async.Run(a.dispatcher, func() (*dnf.PackageInfo, error) {
		return a.backend.Info(a.ctx, name)
	}, onResult, onError)
}

// ListInstalled lists installed packages
func (a *Async) ListInstalled(onResult func([]dnf.Package), onError func(string)) {
	async.Run(a.dispatcher, func() ([]dnf.Package, error) {
		return a.backend.ListInstalled(a.ctx)
	}, onResult, onError)
}

// CheckUpdates lists available updates
func (a *Async) CheckUpdates(onResult func([]dnf.UpdateRecord), onError func(string)) {
	async.Run(a.dispatcher, func() ([]dnf.UpdateRecord, error) {
		return a.backend.CheckUpdates(a.ctx)
	}, onResult, onError)
}

// Install installs a package
func (a *Async) Install(name string, onResult func(*dnf.MutationResult), onError func(string)) {
	async.Run(a.dispatcher, func() (*dnf.MutationResult, error) {
		return a.backend.Install(a.ctx, name)
	}, onResult, onError)
}

// Uninstall removes a package
func (a *Async) Uninstall(name string, onResult func(*dnf.MutationResult), onError func(string)) {
	async.Run(a.dispatcher, func() (*dnf.MutationResult, error) {
		return a.backend.Uninstall(a.ctx, name)
	}, onResult, onError)
}

// Upgrade upgrades the system
func (a *Async) Upgrade(onResult func(*dnf.MutationResult), onError func(string)) {
	async.Run(a.dispatcher, func() (*dnf.MutationResult, error) {
		return a.backend.Upgrade(a.ctx)
	}, onResult, onError)
}
