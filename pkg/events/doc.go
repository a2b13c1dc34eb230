/*
Package events provides an in-memory event broker for brigada's pub/sub
notifications.

The session manager, the router and the entity stores publish events when
their state changes (login, logout, redirects, entity mutations). User
interfaces and the CLI subscribe to react without polling.

# Delivery

Publish is non-blocking. Events go into a queue (buffer: 100) drained by
the broadcast loop started with Start; each subscriber has its own buffer
(50) and a full subscriber misses the event rather than stalling
publishers. Event IDs are UUIDs assigned on publish.

	broker := events.NewBroker()
	broker.Start()
	defer broker.Stop()

	sub := broker.Subscribe()
	defer broker.Unsubscribe(sub)

	for ev := range sub {
		fmt.Println(ev.Type, ev.Metadata["route"])
	}

A nil *Broker is valid and drops every event.
*/
package events
