package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/cleantrack/models"
	"github.com/yeremiapane/cleantrack/realtime"
	"github.com/yeremiapane/cleantrack/services"
	"github.com/yeremiapane/cleantrack/store"
	"github.com/yeremiapane/cleantrack/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type StreamController struct {
	Store *store.Adapter
	Hub   *realtime.Hub
}

func NewStreamController(adapter *store.Adapter, hub *realtime.Hub) *StreamController {
	return &StreamController{Store: adapter, Hub: hub}
}

// clientCommand adalah frame kontrol dari klien stream.
type clientCommand struct {
	Resync bool `json:"resync,omitempty"`
	// SelectDepartment: master drill masuk ke satu departemen.
	SelectDepartment string `json:"select_department,omitempty"`
	// Deselect: master kembali ke layar daftar departemen.
	Deselect bool `json:"deselect,omitempty"`
}

// Stream adalah endpoint sinkronisasi live. Satu koneksi = satu konteks
// logis; ganti konteks (drill in/out master) selalu teardown penuh dulu
// sebelum subscription baru dibuka.
func (sc *StreamController) Stream(c *gin.Context) {
	role := c.GetString("role")
	identity := services.Identity{
		ActorID:      c.GetString("actor_id"),
		DepartmentID: c.GetString("department_id"),
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := sc.Hub.Register(ws, role)
	defer sc.Hub.Unregister(client)

	manager := services.NewSubscriptionManager(sc.Store)
	defer manager.Close()

	deliver := func(collection string, snapshot interface{}) {
		msg := realtime.Message{
			Event:      realtime.EventSnapshot,
			Collection: collection,
			Data:       snapshot,
		}
		if err := client.Send(msg); err != nil {
			utils.ErrorLogger.Printf("stream send %s: %v", collection, err)
		}
	}

	manager.SetContext(services.ResolveScope(role, identity), deliver)

	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			break
		}

		var cmd clientCommand
		if err := json.Unmarshal(raw, &cmd); err != nil {
			continue
		}

		switch {
		case cmd.Resync:
			manager.Resync(deliver)
			if manager.Stale() {
				client.Send(realtime.Message{Event: realtime.EventStaleData, Data: true})
			}
		case cmd.SelectDepartment != "" && role == models.RoleMaster:
			identity.DepartmentID = cmd.SelectDepartment
			manager.SetContext(services.ResolveScope(role, identity), deliver)
		case cmd.Deselect && role == models.RoleMaster:
			identity.DepartmentID = ""
			manager.SetContext(services.ResolveScope(role, identity), deliver)
		}
	}
}
