package main

import (
	"encoding/json"
	"os"

	"botcontrol/internal/handlers"
	"botcontrol/internal/models"
	"botcontrol/internal/strategy"
	"botcontrol/pkg/config"

	"github.com/joho/godotenv"
	logrus "github.com/sirupsen/logrus"
)

// OptimizerProposalsQueue carries partial config documents produced by
// the strategy optimizer.
const OptimizerProposalsQueue = "optimizer_proposals"

// ProposalMessage is the wire format of an optimizer proposal. Document
// holds only the fields the optimizer wants to change.
type ProposalMessage struct {
	Document strategy.Document `json:"document"`
	Comment  string            `json:"comment"`
}

func main() {
	// Initialize logger
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	// Initialize database
	config.InitDB()

	// Initialize RabbitMQ
	config.InitRabbitMQ()
	defer config.RabbitMQ.Close()

	if os.Getenv("PURGE_PROPOSALS_ON_START") == "true" {
		if err := config.PurgeQueue(OptimizerProposalsQueue); err != nil {
			logrus.Warnf("Failed to purge proposal queue: %v", err)
		}
	}

	publisher, err := config.NewPublisher()
	if err != nil {
		logrus.Fatal("Create publisher failed: ", err)
	}
	defer publisher.Close()
	handlers.Publisher = publisher

	// Restore the active config so proposals have a base to merge onto
	if err := restoreActiveConfig(); err != nil {
		logrus.Fatal("Failed to restore active strategy config: ", err)
	}

	// Create consumer for optimizer proposals
	msgConsumer, err := config.NewConsumer(OptimizerProposalsQueue)
	if err != nil {
		logrus.Fatal("Failed to create consumer: ", err)
	}
	defer msgConsumer.Close()

	logrus.Info("Strategy config worker started, waiting for proposals...")

	err = msgConsumer.Consume(func(msg []byte) error {
		var proposal ProposalMessage
		if err := json.Unmarshal(msg, &proposal); err != nil {
			// Malformed payload, requeueing cannot help
			logrus.Errorf("Failed to unmarshal proposal: %v", err)
			return nil
		}

		logrus.Infof("Received optimizer proposal: %d field(s)", len(proposal.Document))

		if err := handlers.ApplyProposal(proposal.Document, proposal.Comment); err != nil {
			if ve, ok := strategy.AsValidationErrors(err); ok {
				// Rejected proposals are dropped, the active config stays
				logrus.WithField("issues", ve.Messages()).Warn("Optimizer proposal rejected")
				return nil
			}
			// Transient failure (DB etc.), let the broker redeliver
			logrus.Errorf("Failed to apply proposal: %v", err)
			return err
		}

		return nil
	})

	if err != nil {
		logrus.Fatal("Failed to start consumer: ", err)
	}
}

// restoreActiveConfig loads the latest persisted revision, falling back
// to built-in defaults on an empty database.
func restoreActiveConfig() error {
	var revision models.StrategyRevision
	if err := config.DB.Order("version desc").First(&revision).Error; err == nil {
		var doc strategy.Document
		if err := json.Unmarshal(revision.Document, &doc); err != nil {
			return err
		}
		cfg, _, err := strategy.Parse(doc)
		if err != nil {
			return err
		}
		strategy.Activate(cfg)
		logrus.Infof("Active strategy config restored from revision %d", revision.Version)
		return nil
	}

	cfg, _, err := strategy.Parse(strategy.DefaultDocument())
	if err != nil {
		return err
	}
	strategy.Activate(cfg)
	logrus.Info("Active strategy config initialized from defaults")
	return nil
}
