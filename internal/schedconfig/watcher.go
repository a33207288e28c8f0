package schedconfig

import (
	"context"
	"log"
	"strconv"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"
)

// TunablesWatcher applies live updates to a subset of Tunables (the
// RM-count-mode and budget-enforcement switches and the tick interval)
// from an etcd key prefix,
// so an operator can flip them across a running cluster without a
// restart.
type TunablesWatcher struct {
	client *clientv3.Client
	prefix string
	apply  func(Tunables)
	get    func() Tunables
}

// NewTunablesWatcher dials etcd at endpoint. apply is called with the
// updated Tunables whenever a watched key changes; get supplies the
// current value to merge partial updates into.
func NewTunablesWatcher(endpoint, prefix string, get func() Tunables, apply func(Tunables)) (*TunablesWatcher, error) {
	cli, err := clientv3.New(clientv3.Config{
		Endpoints:   []string{endpoint},
		DialTimeout: 5 * time.Second,
	})
	if err != nil {
		return nil, err
	}
	return &TunablesWatcher{client: cli, prefix: prefix, apply: apply, get: get}, nil
}

// Run watches prefix until ctx is cancelled, applying each observed change.
func (w *TunablesWatcher) Run(ctx context.Context) {
	watchCh := w.client.Watch(ctx, w.prefix, clientv3.WithPrefix())
	for {
		select {
		case <-ctx.Done():
			return
		case resp, ok := <-watchCh:
			if !ok {
				return
			}
			for _, ev := range resp.Events {
				w.applyEvent(string(ev.Kv.Key), string(ev.Kv.Value))
			}
		}
	}
}

func (w *TunablesWatcher) applyEvent(key, value string) {
	cur := w.get()
	switch key {
	case w.prefix + "enforce_budget":
		b, err := strconv.ParseBool(value)
		if err != nil {
			log.Printf("schedconfig: bad enforce_budget value %q: %v", value, err)
			return
		}
		cur.EnforceBudget = b
	case w.prefix + "rm_count_mode":
		cur.RMCountMode = parseRMCountMode(value)
	case w.prefix + "tick_interval":
		d, err := time.ParseDuration(value)
		if err != nil {
			log.Printf("schedconfig: bad tick_interval value %q: %v", value, err)
			return
		}
		cur.TickInterval = d
	default:
		return
	}
	w.apply(cur)
}

// Close releases the underlying etcd client.
func (w *TunablesWatcher) Close() error {
	return w.client.Close()
}
