// Package config defines the configuration surface consumed by the
// pub/sub factories and the relay command.
//
// The central type is Endpoint: transport kind, topology mode, address,
// execution mode, and (for subscribers) the initial topic filter set.
// Endpoints are plain values; handing one to a factory copies it, so a
// configuration can never change under a live publisher or subscriber.
//
// Process-level configuration is loaded from YAML:
//
//	version: "1.0.0"
//	node: chock-relay-main
//	metrics:
//	  enabled: true
//	  port: 9090
//	endpoints:
//	  sensors-in:
//	    transport: zmq
//	    topology: bind
//	    address: tcp://*:5555
//	    mode: async
//	    topics: ["chock/sensor"]
//	  uplink-out:
//	    transport: nats
//	    topology: connect
//	    address: nats://127.0.0.1:4222
//	    mode: sync
//
// Validation is fail-fast: Load rejects a file whose endpoints name
// unknown transports, topologies, or modes before any resource is opened.
package config
