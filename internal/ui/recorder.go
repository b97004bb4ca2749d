package ui

import "sync"

// Toast is one recorded toast.
type Toast struct {
	Level   Level
	Message string
}

// Recorder is a Surface that remembers every call. Tests across the module
// assert against it.
type Recorder struct {
	mu           sync.Mutex
	Toasts       []Toast
	ModalsClosed int
	LoginShown   int
	Navs         []Nav
	Routes       []string
}

var _ Surface = (*Recorder)(nil)

func (r *Recorder) Toast(level Level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Toasts = append(r.Toasts, Toast{Level: level, Message: message})
}

func (r *Recorder) CloseModals() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ModalsClosed++
}

func (r *Recorder) ShowLogin() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.LoginShown++
}

func (r *Recorder) RenderNav(nav Nav) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Navs = append(r.Navs, nav)
}

func (r *Recorder) Navigate(route string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Routes = append(r.Routes, route)
}

// LastToast returns the most recent toast, or the zero Toast.
func (r *Recorder) LastToast() Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Toasts) == 0 {
		return Toast{}
	}
	return r.Toasts[len(r.Toasts)-1]
}

// LastRoute returns the most recent route, or "".
func (r *Recorder) LastRoute() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Routes) == 0 {
		return ""
	}
	return r.Routes[len(r.Routes)-1]
}
