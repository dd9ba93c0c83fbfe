package dashboard

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/teamwatch/pkg/render"
)

// regionMsg carries one region write into the bubbletea event loop.
type regionMsg struct {
	region   render.Region
	fragment render.Fragment
}

// Page is the engine-facing side of the dashboard. Region writes are
// queued and forwarded to the running program in order, so the engine
// never waits on the event loop and all model state is only touched by it.
type Page struct {
	mu       sync.Mutex
	queue    []regionMsg
	attached bool
	wake     chan struct{}
	done     chan struct{}
	once     sync.Once
}

// NewPage returns a page that buffers writes until Attach.
func NewPage() *Page {
	return &Page{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// SetRegion implements render.Page. It never blocks.
func (p *Page) SetRegion(region render.Region, fragment render.Fragment) {
	p.mu.Lock()
	p.queue = append(p.queue, regionMsg{region: region, fragment: fragment})
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// Attach routes writes to prog. Call it before prog.Run; buffered writes
// are delivered once the event loop is up.
func (p *Page) Attach(prog *tea.Program) {
	p.attach(prog.Send)
}

// Close stops forwarding. Writes after Close are dropped.
func (p *Page) Close() {
	p.once.Do(func() { close(p.done) })
}

func (p *Page) attach(send func(tea.Msg)) {
	p.mu.Lock()
	if p.attached {
		p.mu.Unlock()
		return
	}
	p.attached = true
	p.mu.Unlock()

	go p.forward(send)
}

// forward drains the queue into send. Send blocks until the program reads,
// which cannot happen before Run.
func (p *Page) forward(send func(tea.Msg)) {
	for {
		select {
		case <-p.wake:
		case <-p.done:
			return
		}
		for {
			p.mu.Lock()
			batch := p.queue
			p.queue = nil
			p.mu.Unlock()
			if len(batch) == 0 {
				break
			}
			for _, msg := range batch {
				select {
				case <-p.done:
					return
				default:
				}
				send(msg)
			}
		}
	}
}
