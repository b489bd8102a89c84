package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Autoriser toutes les origines (CORS géré en amont)
		return true
	},
}

// OrderEvents relaie les changements de statut des commandes de l'utilisateur.
// GET /api/users/:uid/orders/ws
func (h *Handler) OrderEvents(c *gin.Context) {
	uid := c.Param("uid")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ Erreur upgrade WebSocket: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, unsubscribe, err := h.Events.Subscribe(ctx, uid)
	if err != nil {
		log.Printf("❌ Abonnement commandes %s: %v", uid, err)
		_ = conn.WriteJSON(gin.H{"type": "error", "message": "Order events unavailable"})
		return
	}
	defer unsubscribe()

	// Lecture en tâche de fond : seule la fermeture côté client nous intéresse.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := conn.WriteJSON(gin.H{"type": "connected", "message": "Order updates enabled"}); err != nil {
		return
	}

	ping := time.NewTicker(30 * time.Second)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, open := <-events:
			if !open {
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				log.Printf("❌ Erreur envoi WebSocket: %v", err)
				return
			}
		case <-ping.C:
			// Ping pour garder la connexion active
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
