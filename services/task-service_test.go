package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func taskDoc(id primitive.ObjectID, projectID string, completed bool) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "project_id", Value: projectID},
		{Key: "task_description", Value: "Design"},
		{Key: "completed", Value: completed},
	}
}

func TestTaskServiceGetTasksForProject(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("filters by project id only", func(mt *mtest.T) {
		service := NewTaskService(mt.Coll, newTestBreaker())

		projectID := primitive.NewObjectID().Hex()
		taskID := primitive.NewObjectID()
		first := mtest.CreateCursorResponse(1, "proxima_db.tasks", mtest.FirstBatch, taskDoc(taskID, projectID, false))
		killCursors := mtest.CreateCursorResponse(0, "proxima_db.tasks", mtest.NextBatch)
		mt.AddMockResponses(first, killCursors)

		tasks, err := service.GetTasksForProject(context.Background(), projectID)
		require.NoError(mt, err)
		require.Len(mt, tasks, 1)
		assert.Equal(mt, taskID, tasks[0].ID)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		require.Equal(mt, "find", evt.CommandName)
		assert.Equal(mt, projectID, evt.Command.Lookup("filter", "project_id").StringValue())

		// Task reads are not owner-scoped, only keyed by the parent id.
		_, err = evt.Command.LookupErr("filter", "owner_id")
		assert.Error(mt, err)
	})

	mt.Run("malformed project id never reaches the store", func(mt *mtest.T) {
		service := NewTaskService(mt.Coll, newTestBreaker())

		_, err := service.GetTasksForProject(context.Background(), "not-a-hex-id")
		assert.ErrorIs(mt, err, ErrInvalidProjectID)
		assert.Nil(mt, mt.GetStartedEvent())
	})
}

func TestTaskServiceAddTask(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("new task starts pending", func(mt *mtest.T) {
		service := NewTaskService(mt.Coll, newTestBreaker())
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		projectID := primitive.NewObjectID().Hex()
		task, err := service.AddTask(context.Background(), projectID, "Design")
		require.NoError(mt, err)
		assert.Equal(mt, projectID, task.ProjectID)
		assert.Equal(mt, "Design", task.TaskDescription)
		assert.False(mt, task.Completed)
		assert.False(mt, task.ID.IsZero())
	})
}

func TestTaskServiceDeleteTask(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("removed task is returned", func(mt *mtest.T) {
		service := NewTaskService(mt.Coll, newTestBreaker())

		taskID := primitive.NewObjectID()
		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 1},
			{Key: "value", Value: taskDoc(taskID, primitive.NewObjectID().Hex(), false)},
		})

		task, err := service.DeleteTask(context.Background(), taskID.Hex())
		require.NoError(mt, err)
		assert.Equal(mt, taskID, task.ID)
	})

	mt.Run("missing task is a nil result, not an error", func(mt *mtest.T) {
		service := NewTaskService(mt.Coll, newTestBreaker())

		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 1},
			{Key: "value", Value: primitive.Null{}},
		})

		task, err := service.DeleteTask(context.Background(), primitive.NewObjectID().Hex())
		require.NoError(mt, err)
		assert.Nil(mt, task)
	})
}

func TestTaskServiceCompleteTask(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("sets completed unconditionally", func(mt *mtest.T) {
		service := NewTaskService(mt.Coll, newTestBreaker())

		taskID := primitive.NewObjectID()
		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 1},
			{Key: "value", Value: taskDoc(taskID, primitive.NewObjectID().Hex(), true)},
		})

		task, err := service.CompleteTask(context.Background(), taskID.Hex())
		require.NoError(mt, err)
		assert.True(mt, task.Completed)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		require.Equal(mt, "findAndModify", evt.CommandName)
		assert.True(mt, evt.Command.Lookup("update", "$set", "completed").Boolean())
	})

	mt.Run("completing an already-completed task re-asserts true", func(mt *mtest.T) {
		service := NewTaskService(mt.Coll, newTestBreaker())

		taskID := primitive.NewObjectID()
		for i := 0; i < 2; i++ {
			mt.AddMockResponses(bson.D{
				{Key: "ok", Value: 1},
				{Key: "value", Value: taskDoc(taskID, primitive.NewObjectID().Hex(), true)},
			})

			task, err := service.CompleteTask(context.Background(), taskID.Hex())
			require.NoError(mt, err)
			assert.True(mt, task.Completed)
		}
	})

	mt.Run("missing task is a nil result, not an error", func(mt *mtest.T) {
		service := NewTaskService(mt.Coll, newTestBreaker())

		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 1},
			{Key: "value", Value: primitive.Null{}},
		})

		task, err := service.CompleteTask(context.Background(), primitive.NewObjectID().Hex())
		require.NoError(mt, err)
		assert.Nil(mt, task)
	})
}
