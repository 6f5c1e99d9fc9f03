package rabbitmq

// Ключи маршрутизации событий.
const (
	KeyUserRegistered    = "user.registered"
	KeyNominationCreated = "nomination.created"
)

// QueueConfig очередь и ключ, которым она привязана к Exchange.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// EventQueues очереди, которые объявляются при старте.
func EventQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "awards.users", RoutingKey: KeyUserRegistered},
		{QueueName: "awards.nominations", RoutingKey: KeyNominationCreated},
	}
}
