// Package notify publishes spin lifecycle events to outside observers.
package notify

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

const (
	DefaultPort  = 1883
	DefaultTopic = "luckywheel"

	publishTimeout = 2 * time.Second
)

// Config holds MQTT connection settings. An empty Host disables the notifier.
type Config struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	Topic      string `yaml:"topic"`
	ClientID   string `yaml:"client_id"`
	CACert     string `yaml:"ca_cert"`
	ClientCert string `yaml:"client_cert"`
	ClientKey  string `yaml:"client_key"`
}

// Event is the JSON payload of every published message.
type Event struct {
	Event string `json:"event"`
	Index *int   `json:"index,omitempty"`
	Label string `json:"label,omitempty"`
}

// publisher is the part of paho.Client the notifier uses.
type publisher interface {
	Publish(topic string, qos byte, retained bool, payload any) paho.Token
}

// MQTT is a spin.Listener that publishes to <topic>/start and <topic>/end.
type MQTT struct {
	client  paho.Client
	pub     publisher
	topic   string
	label   func(index int) string
	enabled bool
	errs    chan error
}

// NewMQTT creates the notifier. label maps a landed index to its label and
// may be nil. With no host configured the notifier is a silent no-op.
func NewMQTT(cfg Config, label func(index int) string) (*MQTT, error) {
	if cfg.Host == "" {
		return newMQTT(nil, cfg.Topic, label), nil
	}

	var broker string
	var tlsConfig *tls.Config
	if cfg.CACert != "" || cfg.ClientCert != "" {
		if cfg.Port == 0 {
			cfg.Port = 8883
		}
		broker = fmt.Sprintf("ssl://%s:%d", cfg.Host, cfg.Port)

		var err error
		tlsConfig, err = buildTLSConfig(cfg)
		if err != nil {
			return nil, fmt.Errorf("build TLS config: %w", err)
		}
	} else {
		if cfg.Port == 0 {
			cfg.Port = DefaultPort
		}
		broker = fmt.Sprintf("tcp://%s:%d", cfg.Host, cfg.Port)
	}

	clientID := cfg.ClientID
	if clientID == "" {
		host, _ := os.Hostname()
		clientID = fmt.Sprintf("luckywheel-%s-%d", host, os.Getpid())
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetKeepAlive(60 * time.Second).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.Printf("mqtt connection lost: %v", err)
		})
	if tlsConfig != nil {
		opts.SetTLSConfig(tlsConfig)
	}

	// The terminal UI owns stdout.
	paho.ERROR = log.New(os.Stderr, "[MQTT ERROR] ", 0)
	paho.CRITICAL = log.New(os.Stderr, "[MQTT CRIT] ", 0)
	paho.WARN = log.New(os.Stderr, "[MQTT WARN] ", 0)

	client := paho.NewClient(opts)
	m := newMQTT(client, cfg.Topic, label)
	m.client = client
	return m, nil
}

func newMQTT(pub publisher, topic string, label func(int) string) *MQTT {
	if topic == "" {
		topic = DefaultTopic
	}
	return &MQTT{
		pub:     pub,
		topic:   topic,
		label:   label,
		enabled: pub != nil,
		errs:    make(chan error, 16),
	}
}

func buildTLSConfig(cfg Config) (*tls.Config, error) {
	tlsConfig := &tls.Config{}

	if cfg.CACert != "" {
		caCert, err := os.ReadFile(cfg.CACert)
		if err != nil {
			return nil, fmt.Errorf("read CA cert: %w", err)
		}
		caPool := x509.NewCertPool()
		if !caPool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("no certificates in %s", cfg.CACert)
		}
		tlsConfig.RootCAs = caPool
	}

	if cfg.ClientCert != "" && cfg.ClientKey != "" {
		cert, err := tls.LoadX509KeyPair(cfg.ClientCert, cfg.ClientKey)
		if err != nil {
			return nil, fmt.Errorf("load client cert: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	return tlsConfig, nil
}

func (m *MQTT) Enabled() bool {
	return m.enabled
}

// Connect dials the broker. No-op if disabled.
func (m *MQTT) Connect() error {
	if !m.enabled || m.client == nil {
		return nil
	}
	if token := m.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("mqtt connect: %w", token.Error())
	}
	return nil
}

// Disconnect waits briefly for in-flight messages, then closes. No-op if
// disabled.
func (m *MQTT) Disconnect() {
	if !m.enabled || m.client == nil {
		return
	}
	m.client.Disconnect(250)
}

// Errors delivers publish failures. Failures are dropped once the buffer is
// full.
func (m *MQTT) Errors() <-chan error {
	return m.errs
}

func (m *MQTT) OnRotateStart() {
	m.publish("start", Event{Event: "start"})
}

func (m *MQTT) OnRotateEnd(index int) {
	ev := Event{Event: "end", Index: &index}
	if m.label != nil {
		ev.Label = m.label(index)
	}
	m.publish("end", ev)
}

// publish never blocks the caller: delivery is confirmed on a goroutine.
func (m *MQTT) publish(suffix string, ev Event) {
	if !m.enabled {
		return
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		m.report(fmt.Errorf("encode %s event: %w", ev.Event, err))
		return
	}

	topic := m.topic + "/" + suffix
	token := m.pub.Publish(topic, 0, false, payload)
	go func() {
		if !token.WaitTimeout(publishTimeout) {
			m.report(fmt.Errorf("publish %s: timed out", topic))
			return
		}
		if err := token.Error(); err != nil {
			m.report(fmt.Errorf("publish %s: %w", topic, err))
		}
	}()
}

func (m *MQTT) report(err error) {
	select {
	case m.errs <- err:
	default:
	}
}
